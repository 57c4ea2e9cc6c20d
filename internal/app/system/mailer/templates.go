// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// AnnouncementEmailData holds data for announcement email templates.
// BodyHTML must already be sanitized; it is injected into the template
// without further escaping.
type AnnouncementEmailData struct {
	SiteName  string
	Subject   string
	BodyHTML  template.HTML
	BodyText  string
	MessageID string
}

// BuildAnnouncementEmail creates an announcement email with both HTML and
// text bodies. The message id rides along in an X-FaithLink-Message-ID
// header so deliveries can be traced back to the announcement.
func BuildAnnouncementEmail(data AnnouncementEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  data.Subject,
		TextBody: buildAnnouncementText(data),
		HTMLBody: buildAnnouncementHTML(data),
		Headers: map[string]string{
			"X-FaithLink-Message-ID": data.MessageID,
		},
	}
}

func buildAnnouncementText(data AnnouncementEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(data.BodyText + "\n\n")
	buf.WriteString(fmt.Sprintf("— %s\n", data.SiteName))
	buf.WriteString("You are receiving this because you are a member of our congregation.\n")
	return buf.String()
}

func buildAnnouncementHTML(data AnnouncementEmailData) string {
	tmpl := template.Must(template.New("announcement").Parse(announcementHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const announcementHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Subject}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px; font-size: 20px; font-weight: 600; color: #1f2937;">{{.Subject}}</h2>
              <div style="font-size: 16px; color: #374151; line-height: 1.6;">
                {{.BodyHTML}}
              </div>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You are receiving this because you are a member of our congregation.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
