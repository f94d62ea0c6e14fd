package aboutme

import "strings"

// Action discriminators understood by the collaborator endpoint.
const (
	ActionAboutMe = "aboutme"
	ActionInvite  = "invite"
)

// Request is the envelope POSTed to the endpoint.
type Request struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// Payload is the body of an "aboutme" request.
type Payload struct {
	EmailID      string   `json:"email_id"`
	Bio          string   `json:"bio"`
	Interests    []string `json:"interests"`
	Skills       []string `json:"skills"`
	Endorsements []string `json:"endorsements"`
	Invitation   []string `json:"invitation"`
}

// InvitePayload is the body of an "invite" request.
type InvitePayload struct {
	EmailID    string   `json:"email_id"`
	Invitation []string `json:"invitation"`
}

// Payload builds the submission body for the given identity.
func (d Draft) Payload(emailID string) Payload {
	return Payload{
		EmailID:      emailID,
		Bio:          d.Bio,
		Interests:    nonNil(d.Interests),
		Skills:       nonNil(d.Skills),
		Endorsements: nonNil(d.Endorsements),
		Invitation:   nonNil(d.Invitees),
	}
}

// Normalize trims and de-duplicates every list and checks the email shape of
// the identity and invitations. Servers use it to apply the same rules as the
// form.
func (p Payload) Normalize() (Payload, error) {
	var err error
	out := Payload{Bio: p.Bio}
	if out.EmailID, err = normalizeEmail(p.EmailID); err != nil {
		return Payload{}, err
	}
	if out.Interests, err = Normalize(p.Interests, nil); err != nil {
		return Payload{}, err
	}
	if out.Skills, err = Normalize(p.Skills, nil); err != nil {
		return Payload{}, err
	}
	if out.Endorsements, err = Normalize(p.Endorsements, nil); err != nil {
		return Payload{}, err
	}
	if out.Invitation, err = Normalize(p.Invitation, ValidateEmail); err != nil {
		return Payload{}, &FieldError{Field: FieldInvitees, Value: firstInvalid(p.Invitation), Err: err}
	}
	return out, nil
}

// Normalize applies the invitee rules to an invite request.
func (p InvitePayload) Normalize() (InvitePayload, error) {
	emailID, err := normalizeEmail(p.EmailID)
	if err != nil {
		return InvitePayload{}, err
	}
	invitation, err := Normalize(p.Invitation, ValidateEmail)
	if err != nil {
		return InvitePayload{}, &FieldError{Field: FieldInvitees, Value: firstInvalid(p.Invitation), Err: err}
	}
	return InvitePayload{EmailID: emailID, Invitation: invitation}, nil
}

func normalizeEmail(s string) (string, error) {
	v, err := NewEmailList().Add(s)
	if err == ErrEmptyTag {
		return "", ErrNoIdentity
	}
	return v, err
}

func firstInvalid(values []string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" && !IsEmail(t) {
			return t
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
