package service

import "go-bank-ledger/model"

// AccessPolicy gates operations on the verified claims placed in the request
// context by the auth middleware. Nil claims are always denied.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// AuthorizeOwnerAccess allows administrators and the owner of the resource.
func (p *AccessPolicy) AuthorizeOwnerAccess(claims *model.AppClaims, resourceOwnerID int64) error {
	if claims == nil {
		return ErrAccessDenied
	}
	if claims.IsAdmin() || claims.UserID == resourceOwnerID {
		return nil
	}
	return ErrAccessDenied
}

func (p *AccessPolicy) AuthorizeAdmin(claims *model.AppClaims) error {
	if !claims.IsAdmin() {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeTransfer allows only a customer moving money out of their own account.
func (p *AccessPolicy) AuthorizeTransfer(claims *model.AppClaims, sourceOwnerID int64) error {
	if claims == nil || claims.Role != string(model.RoleCustomer) || claims.UserID != sourceOwnerID {
		return ErrAccessDenied
	}
	return nil
}
