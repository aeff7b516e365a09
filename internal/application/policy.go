package application

import "github.com/okadio/microblog/internal/domain/entity"

// Ownership policy: pure decision functions gating mutations on actor
// identity vs target identity. There is no role hierarchy; accounts are
// strictly self-service.

func CanUpdateUser(actorID, targetID string) bool {
	return actorID != "" && actorID == targetID
}

func CanDeleteUser(actorID, targetID string) bool {
	return actorID != "" && actorID == targetID
}

func CanDeleteStatus(actorID string, s *entity.Status) bool {
	return s != nil && actorID != "" && actorID == s.UserID
}
