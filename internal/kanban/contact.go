package kanban

import "fmt"

// ContactType identifies how a store user reached a lead.
type ContactType string

const (
	ContactManual    ContactType = "manual"
	ContactCopyPhone ContactType = "copy_phone"
	ContactCopyEmail ContactType = "copy_email"
	ContactTel       ContactType = "tel"
	ContactMailto    ContactType = "mailto"
	ContactWhatsApp  ContactType = "whatsapp"
)

func (c ContactType) Valid() bool {
	switch c {
	case ContactManual, ContactCopyPhone, ContactCopyEmail, ContactTel, ContactMailto, ContactWhatsApp:
		return true
	}
	return false
}

// Observacao is the note recorded with the contact event.
func (c ContactType) Observacao() string {
	if c == ContactManual || c == "" {
		return "Marcado como atendido pelo lojista"
	}
	return fmt.Sprintf("Contato via %s", c)
}
