package services

import (
	"cafe/internal/core/domain/model/actor"
	"cafe/internal/core/domain/model/kernel"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/pkg/errs"
)

// ActionKind enumerates the actions the policy rules on.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionCreateOrder
	ActionChangeStatus
	ActionAssignCourier
	ActionUnassignSelf
	ActionDeleteOrder
	ActionAdjustLoyalty
	ActionUpdateProgram
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreateOrder:
		return "create order"
	case ActionChangeStatus:
		return "change status"
	case ActionAssignCourier:
		return "assign courier"
	case ActionUnassignSelf:
		return "unassign self"
	case ActionDeleteOrder:
		return "delete order"
	case ActionAdjustLoyalty:
		return "adjust loyalty"
	case ActionUpdateProgram:
		return "update program"
	default:
		return "unknown action"
	}
}

// Action is an action kind plus its arguments.
type Action struct {
	kind      ActionKind
	to        order.Status
	courierID kernel.UUID
}

func CreateOrderAction() Action {
	return Action{kind: ActionCreateOrder}
}

func ChangeStatusAction(to order.Status) Action {
	return Action{kind: ActionChangeStatus, to: to}
}

func AssignCourierAction(courierID kernel.UUID) Action {
	return Action{kind: ActionAssignCourier, courierID: courierID}
}

func UnassignSelfAction() Action {
	return Action{kind: ActionUnassignSelf}
}

func DeleteOrderAction() Action {
	return Action{kind: ActionDeleteOrder}
}

func AdjustLoyaltyAction() Action {
	return Action{kind: ActionAdjustLoyalty}
}

func UpdateProgramAction() Action {
	return Action{kind: ActionUpdateProgram}
}

func (a Action) Kind() ActionKind {
	return a.kind
}

func (a Action) String() string {
	if a.kind == ActionChangeStatus {
		return a.kind.String() + " to " + a.to.String()
	}
	return a.kind.String()
}

// movesLifecycle reports whether the action advances the order state machine.
// Such actions are never permitted on terminal orders.
func (a Action) movesLifecycle() bool {
	return a.kind == ActionChangeStatus || a.kind == ActionAssignCourier || a.kind == ActionUnassignSelf
}

type rule func(who actor.Actor, action Action, o *order.Order) bool

func always(actor.Actor, Action, *order.Order) bool {
	return true
}

func isClaimedBy(o *order.Order, who actor.Actor) bool {
	return o != nil && o.CourierID() != nil && o.CourierID().IsEqual(who.ID())
}

// AuthorizationPolicy decides whether an actor may perform an action on an
// order. It is a pure function of its inputs: the table below is the only place
// role permissions are defined.
//
// Rules:
//   - Admin: every action
//   - Cashier: create orders, change status of any order, adjust loyalty balances
//   - Courier: claim an unclaimed delivery order for themselves; move an order
//     they hold from Pending to Processing or from Processing to Completed
//   - Nobody may move the lifecycle of a Completed or Cancelled order
//
// Example:
//
//	policy := services.NewAuthorizationPolicy()
//	if err := policy.Authorize(who, services.ChangeStatusAction(order.Completed), o); err != nil {
//	    return nil, err // PermissionDeniedError
//	}
type AuthorizationPolicy struct {
	rules map[actor.Role]map[ActionKind]rule
}

// NewAuthorizationPolicy builds the permission table.
func NewAuthorizationPolicy() AuthorizationPolicy {
	return AuthorizationPolicy{
		rules: map[actor.Role]map[ActionKind]rule{
			actor.Admin: {
				ActionCreateOrder:   always,
				ActionChangeStatus:  always,
				ActionAssignCourier: always,
				ActionUnassignSelf:  always,
				ActionDeleteOrder:   always,
				ActionAdjustLoyalty: always,
				ActionUpdateProgram: always,
			},
			actor.Cashier: {
				ActionCreateOrder:   always,
				ActionChangeStatus:  always,
				ActionAdjustLoyalty: always,
			},
			actor.Courier: {
				ActionAssignCourier: func(who actor.Actor, action Action, o *order.Order) bool {
					return o != nil &&
						action.courierID.IsEqual(who.ID()) &&
						o.Type() == order.Delivery &&
						o.CourierID() == nil
				},
				ActionChangeStatus: func(who actor.Actor, action Action, o *order.Order) bool {
					if !isClaimedBy(o, who) {
						return false
					}
					switch action.to { //nolint:exhaustive // couriers may only move their own order forward
					case order.Processing:
						return o.Status() == order.Pending
					case order.Completed:
						return o.Status() == order.Processing
					default:
						return false
					}
				},
			},
		},
	}
}

// Permit reports whether who may perform action on o. o is nil for actions
// that do not target an existing order.
func (p AuthorizationPolicy) Permit(who actor.Actor, action Action, o *order.Order) bool {
	if who.Validate() != nil {
		return false
	}
	if action.movesLifecycle() && o != nil && o.Status().IsTerminal() {
		return false
	}
	r, ok := p.rules[who.Role()][action.kind]
	return ok && r(who, action, o)
}

// Authorize is Permit returning a PermissionDeniedError on denial.
func (p AuthorizationPolicy) Authorize(who actor.Actor, action Action, o *order.Order) error {
	if !p.Permit(who, action, o) {
		return errs.NewPermissionDeniedError(who.Role().String(), action.String())
	}
	return nil
}
