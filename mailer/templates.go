package mailer

import (
	"bytes"
	"html/template"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Email}},</p>
<p>{{if .Returning}}Welcome back! Your subscription is active again.{{else}}Thanks for subscribing to our newsletter.{{end}}
New recipes and stories will land in your inbox.</p>
<p><a href="{{.AppURL}}/newsletter/unsubscribe?email={{.Email}}">Unsubscribe</a></p>`))

type WelcomeData struct {
	Email     string
	AppURL    string
	Returning bool
}

const WelcomeSubject = "Welcome to the Recipe Blog newsletter"

// RenderWelcome renders the newsletter welcome body.
func RenderWelcome(data WelcomeData) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
