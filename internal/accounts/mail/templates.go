package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type templateData struct {
	Name string
	Link string
}

// RenderConfirmation produces the account-confirmation email body. Link is
// the client redirect URL with the confirmation token already appended.
func RenderConfirmation(name, link string) (string, error) {
	return render("account_confirmation.html", templateData{Name: name, Link: link})
}

// RenderPasswordReset produces the reset-instructions email body.
func RenderPasswordReset(name, link string) (string, error) {
	return render("reset_password_instructions.html", templateData{Name: name, Link: link})
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", name, err)
	}
	return buf.String(), nil
}
