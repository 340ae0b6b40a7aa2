// Package contacts turns vCard address books into invitation guests.
package contacts

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/client/models"
	"github.com/emersion/go-vcard"
)

// Contact is the part of a vCard a guest list needs.
type Contact struct {
	UID   string
	Name  string
	Email string
	Phone string
}

// Decode reads every card of r. Cards without any usable name are skipped;
// a malformed card is reported through skipped and decoding continues.
func Decode(r io.Reader) (contacts []Contact, skipped int, err error) {
	dec := vcard.NewDecoder(r)
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return contacts, skipped, nil
		}
		if err != nil {
			// The decoder cannot resync after a broken line.
			if len(contacts) == 0 && skipped == 0 {
				return nil, 0, fmt.Errorf("failed to decode vcard: %w", err)
			}
			return contacts, skipped + 1, nil
		}

		c := Contact{
			UID:   strings.TrimSpace(card.Value(vcard.FieldUID)),
			Email: strings.TrimSpace(card.PreferredValue(vcard.FieldEmail)),
			Phone: strings.TrimSpace(card.PreferredValue(vcard.FieldTelephone)),
			Name:  displayName(card),
		}
		if c.Name == "" {
			c.Name = c.Email
		}
		if c.Name == "" {
			skipped++
			continue
		}
		contacts = append(contacts, c)
	}
}

func displayName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " "))
	}
	return ""
}

// Invitations builds pending invitations for eventID. The vCard UID is kept
// as the local contact back-reference. Contacts already invited, matched by
// contact id or e-mail, are left out.
func Invitations(eventID string, cs []Contact, existing []*models.Invitation, now time.Time) []*models.Invitation {
	seen := map[string]bool{}
	for _, inv := range existing {
		if inv.ContactID != nil {
			seen["uid:"+*inv.ContactID] = true
		}
		if inv.GuestEmail != nil {
			seen["mail:"+strings.ToLower(*inv.GuestEmail)] = true
		}
	}

	var out []*models.Invitation
	for _, c := range cs {
		if (c.UID != "" && seen["uid:"+c.UID]) || (c.Email != "" && seen["mail:"+strings.ToLower(c.Email)]) {
			continue
		}
		inv := models.NewInvitation(eventID, c.Name, now)
		if c.UID != "" {
			uid := c.UID
			inv.ContactID = &uid
			seen["uid:"+uid] = true
		}
		if c.Email != "" {
			email := c.Email
			inv.GuestEmail = &email
			seen["mail:"+strings.ToLower(email)] = true
		}
		if c.Phone != "" {
			phone := c.Phone
			inv.GuestPhone = &phone
		}
		out = append(out, inv)
	}
	return out
}
