package service

import "pollbox/internal/model"

// Pure authorization predicates. The repository's scoped queries must agree
// with these; they exist so the rules can be unit-tested without a store and
// so the query scopes have a single source of truth to derive from.

// CanReadPoll reports whether caller may view the poll. Public polls are
// readable by anyone, private polls only by their owner or an admin.
func CanReadPoll(p *model.Poll, caller *model.User) bool {
	if p == nil {
		return false
	}
	return p.IsPublic || p.OwnedBy(caller) || caller.IsAdmin()
}

// CanModifyPoll reports whether caller may edit the poll's content. Only the
// owner may: admins moderate by deletion, not by rewriting other people's
// questions.
func CanModifyPoll(p *model.Poll, caller *model.User) bool {
	if p == nil {
		return false
	}
	return p.OwnedBy(caller)
}

// CanDeletePoll reports whether caller may delete the poll.
func CanDeletePoll(p *model.Poll, caller *model.User) bool {
	if p == nil {
		return false
	}
	return p.OwnedBy(caller) || caller.IsAdmin()
}
