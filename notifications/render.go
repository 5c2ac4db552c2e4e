package notifications

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type TemplateID string

const (
	Activation           TemplateID = "activation"
	ActivationSuccess    TemplateID = "activation_success"
	ForgetPassword       TemplateID = "forget_password"
	ResetPasswordSuccess TemplateID = "reset_password_success"
	DeleteAccount        TemplateID = "delete_account"
)

// Vars are the values a template may reference.
type Vars struct {
	Name        string
	Token       string
	FrontendURL string
}

// Render fills the template for id in locale. Any locale other than "ar" gets English.
func Render(id TemplateID, locale string, vars Vars) (string, error) {
	if locale != "ar" {
		locale = "en"
	}
	name := fmt.Sprintf("%s_%s.html", id, locale)
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, vars); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
