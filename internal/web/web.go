// Package web renders the upload stepper page.
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/yoockh/cv-enhancer/internal/models"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/stepper"
)

//go:embed templates/*.html
var files embed.FS

const UploadPage = "upload.html"

// SessionView is the auth block state, built per request from the resolved identity.
type SessionView struct {
	SignedIn   bool
	UserID     string
	Name       string
	SignInURL  string
	SignOutURL string
}

func NewSessionView(id *identity.Identity, signInURL, signOutURL string) SessionView {
	v := SessionView{SignInURL: signInURL, SignOutURL: signOutURL}
	if id == nil {
		return v
	}
	v.SignedIn = true
	v.UserID = id.UserID
	switch {
	case id.Name != nil && *id.Name != "":
		v.Name = *id.Name
	case id.Email != "":
		v.Name = id.Email
	default:
		v.Name = id.UserID
	}
	return v
}

type Page struct {
	Session SessionView
	Step    stepper.Stepper
	Labels  []string
	Loader  *services.LoaderData
	Result  *services.ActionResult
}

func NewPage(s SessionView, step stepper.Stepper, loader *services.LoaderData, result *services.ActionResult) Page {
	return Page{Session: s, Step: step, Labels: stepper.Labels, Loader: loader, Result: result}
}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"join": strings.Join,
	"contact": func(c models.Contact) []string {
		out := []string{c.Email, c.Phone}
		for _, p := range []*string{c.Portfolio, c.LinkedIn, c.GitHub} {
			if p != nil && *p != "" {
				out = append(out, *p)
			}
		}
		return out
	},
}

// Templates parses the embedded pages; it panics on a broken template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}
