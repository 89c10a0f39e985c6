package identity

import (
	"errors"

	"github.com/google/uuid"
)

// Actor is the caller identity threaded explicitly through every service
// call. Services never read ambient session state; handlers build an Actor
// from the session and pass it down.
type Actor struct {
	UserID     uuid.UUID
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	Role       string
}

var ErrNoActor = errors.New("no authenticated actor in session")

// FromSession builds an Actor from the session user map stored in Locals.
func FromSession(sessionUser interface{}) (*Actor, error) {
	m, ok := sessionUser.(map[string]interface{})
	if !ok || m == nil {
		return nil, ErrNoActor
	}
	userID, err := uuid.Parse(str(m["user_id"]))
	if err != nil {
		return nil, ErrNoActor
	}
	companyID, err := uuid.Parse(str(m["company_id"]))
	if err != nil {
		return nil, ErrNoActor
	}
	a := &Actor{
		UserID:    userID,
		CompanyID: companyID,
		Role:      str(m["role"]),
	}
	if s := str(m["employee_id"]); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			a.EmployeeID = &id
		}
	}
	return a, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
