package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Fallback personas used when a recipient never answered the user-type
// survey question.
const (
	DefaultWelcomePersona = "food lover"
	DefaultBulkPersona    = "valued subscriber"
)

// UserTypePlaceholder is replaced with the recipient's persona when
// personalizing a bulk message body.
const UserTypePlaceholder = "[USER_TYPE]"

var emailStyles = template.CSS(`
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #ff6b6b, #ffa726); color: white; padding: 30px; text-align: center; border-radius: 10px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 10px; margin: 20px 0; }
        .features { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; }
        .btn { display: inline-block; background: #ff6b6b; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
`)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to {{.AppName}}</title>
    <style>{{.Styles}}</style>
</head>
<body>
    <div class="header">
        <h1>🎉 Welcome to {{.AppName}}!</h1>
        <p>Thank you for joining our waitlist</p>
    </div>

    <div class="content">
        <h2>Hello {{.UserType}}! 👋</h2>
        <p>We're thrilled to have you on our waitlist! You're now part of an exclusive group that will be the first to experience {{.AppName}} when we launch.</p>
{{if .Features}}
        <div class="features">
            <h3>🍽️ Features you're excited about:</h3>
            <ul>{{range .Features}}<li>{{.}}</li>{{end}}</ul>
        </div>
{{end}}
        <h3>What happens next?</h3>
        <ul>
            <li>📧 We'll send you exclusive updates about our progress</li>
            <li>🎁 You'll get early access when we launch</li>
            <li>💝 Special launch offers and promotions</li>
            <li>🗣️ Opportunity to provide feedback and shape our product</li>
        </ul>

        <p>We're working hard to bring you the best food ordering experience. Stay tuned for exciting updates!</p>

        <a href="{{.AppURL}}" class="btn">Visit Our Website</a>
    </div>

    <div class="footer">
        <p>© {{.Year}} {{.AppName}}. All rights reserved.</p>
        <p>If you no longer wish to receive these emails, <a href="{{.UnsubscribeURL}}">unsubscribe here</a></p>
    </div>
</body>
</html>`))

var bulkTemplate = template.Must(template.New("bulk").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.AppName}} Update</title>
    <style>{{.Styles}}</style>
</head>
<body>
    <div class="header">
        <h1>{{.AppName}}</h1>
        <p>Update from the team</p>
    </div>

    <div class="content">
        {{.Message}}
    </div>

    <div class="footer">
        <p>© {{.Year}} {{.AppName}}. All rights reserved.</p>
        <p>If you no longer wish to receive these emails, <a href="{{.UnsubscribeURL}}">unsubscribe here</a></p>
    </div>
</body>
</html>`))

type welcomeTemplateData struct {
	AppName        string
	AppURL         string
	UnsubscribeURL string
	UserType       string
	Features       []string
	Styles         template.CSS
	Year           int
}

type bulkTemplateData struct {
	AppName        string
	UnsubscribeURL string
	Message        template.HTML
	Styles         template.CSS
	Year           int
}

// WelcomeSubject builds the welcome email subject line for the app.
func WelcomeSubject(appName string) string {
	return fmt.Sprintf("Welcome to %s Waitlist! 🎉", appName)
}

func renderWelcome(settings *Settings, userType *string, features []string) (string, error) {
	persona := DefaultWelcomePersona
	if userType != nil && strings.TrimSpace(*userType) != "" {
		persona = *userType
	}

	data := welcomeTemplateData{
		AppName:        settings.AppName,
		AppURL:         settings.AppURL,
		UnsubscribeURL: settings.UnsubscribeURL,
		UserType:       ucfirst(persona),
		Features:       features,
		Styles:         emailStyles,
		Year:           time.Now().Year(),
	}

	var sb strings.Builder
	if err := welcomeTemplate.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// renderBulk personalizes a campaign body for one recipient and wraps it in
// the branded frame. The message is operator-authored HTML and passes
// through unescaped.
func renderBulk(settings *Settings, message string, userType *string) (string, error) {
	persona := DefaultBulkPersona
	if userType != nil && strings.TrimSpace(*userType) != "" {
		persona = *userType
	}

	data := bulkTemplateData{
		AppName:        settings.AppName,
		UnsubscribeURL: settings.UnsubscribeURL,
		Message:        template.HTML(strings.ReplaceAll(message, UserTypePlaceholder, persona)),
		Styles:         emailStyles,
		Year:           time.Now().Year(),
	}

	var sb strings.Builder
	if err := bulkTemplate.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// ucfirst upper-cases the first rune only, leaving the rest untouched.
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
