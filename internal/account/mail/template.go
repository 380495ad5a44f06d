package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var inviteTmpl = template.Must(template.ParseFS(templateFS, "templates/invite.html"))

// InviteEmail is the data rendered into the invite template.
type InviteEmail struct {
	BusinessName string
	InviterEmail string
	Role         string
	Link         string
	ExpiresAt    time.Time
}

// RenderInvite returns the subject and HTML body for an invite.
func RenderInvite(data InviteEmail) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := inviteTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render invite: %w", err)
	}
	return fmt.Sprintf("You've been invited to join %s", data.BusinessName), buf.String(), nil
}
