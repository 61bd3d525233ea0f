package authz

import (
	"testing"

	"github.com/forumhub/forumhub/pkg/forumhub/models"
)

func TestCanModifyPost(t *testing.T) {
	post := &models.Post{AuthorID: 1}

	if err := CanModifyPost(1, post); err != nil {
		t.Errorf("Expected author to be allowed, got %v", err)
	}
	if err := CanModifyPost(2, post); err != ErrNotOwner {
		t.Errorf("Expected ErrNotOwner for non-author, got %v", err)
	}
}

func TestCanDeleteEvent(t *testing.T) {
	event := &models.Event{CreatedByID: 7}

	if err := CanDeleteEvent(7, event); err != nil {
		t.Errorf("Expected creator to be allowed, got %v", err)
	}
	if err := CanDeleteEvent(8, event); err != ErrNotOwner {
		t.Errorf("Expected ErrNotOwner for non-creator, got %v", err)
	}
}

func TestCanAccessPublicGroup(t *testing.T) {
	group := &models.Group{Visibility: models.GroupVisibilityPublic}

	if err := CanAccessGroup("anyone@anywhere.org", group); err != nil {
		t.Errorf("Expected public group to allow anyone, got %v", err)
	}
	// Even a malformed email passes a public group
	if err := CanAccessGroup("not-an-email", group); err != nil {
		t.Errorf("Expected public group to allow malformed email, got %v", err)
	}
}

func TestCanAccessPrivateGroup(t *testing.T) {
	group := &models.Group{
		Visibility:   models.GroupVisibilityPrivate,
		EmailDomains: "mit.edu,yale.edu",
	}

	cases := []struct {
		email string
		allow bool
	}{
		{"a@mit.edu", true},
		{"b@mit.edu", true},
		{"c@yale.edu", true},
		{"c@harvard.edu", false},
		{"c@MIT.edu", false}, // exact match, no case normalization
		{"no-at-sign", false},
		{"", false},
		{"trailing@", false},
	}

	for _, tc := range cases {
		err := CanAccessGroup(tc.email, group)
		if tc.allow && err != nil {
			t.Errorf("Expected %q to be allowed, got %v", tc.email, err)
		}
		if !tc.allow && err != ErrDomainNotPermitted {
			t.Errorf("Expected %q to be denied, got %v", tc.email, err)
		}
	}
}

func TestCanAccessPrivateGroupEmptyAllowlist(t *testing.T) {
	group := &models.Group{Visibility: models.GroupVisibilityPrivate}

	if err := CanAccessGroup("a@mit.edu", group); err != ErrDomainNotPermitted {
		t.Errorf("Expected deny with empty allowlist, got %v", err)
	}
}

func TestEmailDomain(t *testing.T) {
	domain, ok := EmailDomain("user@example.com")
	if !ok || domain != "example.com" {
		t.Errorf("Expected example.com, got %q (%v)", domain, ok)
	}

	// Domain is everything after the first @
	domain, ok = EmailDomain("we@ird@host")
	if !ok || domain != "ird@host" {
		t.Errorf("Expected ird@host, got %q (%v)", domain, ok)
	}

	if _, ok := EmailDomain("nodomain"); ok {
		t.Error("Expected false for email without @")
	}
}
