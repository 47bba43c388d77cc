// Package actor describes the authenticated caller of a command: who they are
// and which role the identity provider granted them.
package actor

import (
	"errors"
	"fmt"
	"strings"

	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/pkg/errs"
	"cafe/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when an Actor was not created through NewActor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Role is the permission tier of an actor.
type Role int

const (
	UnknownRole Role = iota
	Admin
	Cashier
	Courier
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Admin:       "admin",
		Cashier:     "cashier",
		Courier:     "courier",
	}
}

// ParseRole converts a token claim into a Role. Matching ignores case.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for role, str := range getRoleStrings() {
		if role != UnknownRole && str == name {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

func (r Role) Validate() error {
	if r < Admin || r > Courier {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Actor is an already-authenticated caller. The core never issues identities;
// it trusts the id and role extracted by the transport.
type Actor struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

// NewActor validates the identity and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	a := Actor{
		id:    id,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return a, nil
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) String() string {
	return a.role.String() + ":" + a.id.String()
}
