// Package authz decides whether an identity may act on a post, group or
// event. All checks are pure functions of already-fetched state: no I/O,
// no ambient configuration.
package authz

import (
	"errors"
	"strings"

	"github.com/forumhub/forumhub/pkg/forumhub/models"
)

var (
	// ErrNotOwner is returned when the requester does not own the resource
	ErrNotOwner = errors.New("not owner")
	// ErrDomainNotPermitted is returned when the requester's email domain is
	// not on a private group's allowlist
	ErrDomainNotPermitted = errors.New("domain not permitted")
)

// CanModifyPost allows only the post's author to edit or delete it.
func CanModifyPost(userID uint, post *models.Post) error {
	if post.AuthorID != userID {
		return ErrNotOwner
	}
	return nil
}

// CanDeleteEvent allows only the event's creator to delete it.
func CanDeleteEvent(userID uint, event *models.Event) error {
	if event.CreatedByID != userID {
		return ErrNotOwner
	}
	return nil
}

// CanAccessGroup applies the domain gate: public groups always pass; private
// groups pass iff the requester's email domain is on the group's allowlist.
// Entries are compared exactly, with no case normalization. A malformed email
// (no "@") is denied, never a crash.
func CanAccessGroup(email string, group *models.Group) error {
	if group.Visibility != models.GroupVisibilityPrivate {
		return nil
	}

	domain, ok := EmailDomain(email)
	if !ok {
		return ErrDomainNotPermitted
	}

	for _, allowed := range group.AllowedDomains() {
		if domain == allowed {
			return nil
		}
	}
	return ErrDomainNotPermitted
}

// EmailDomain returns the part of email after the first "@". The second
// return is false when the email contains no "@".
func EmailDomain(email string) (string, bool) {
	idx := strings.Index(email, "@")
	if idx < 0 {
		return "", false
	}
	return email[idx+1:], true
}
