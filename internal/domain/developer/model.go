package developer

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
)

// Developer is a portal account that can subscribe to rate plans and hold
// prepaid balances with the billing backend.
type Developer struct {
	ID          string `db:"id" json:"id"`
	Email       string `db:"email" json:"email"`
	DisplayName string `db:"display_name" json:"display_name"`
	types.BaseModel
}

func (d *Developer) TableName() string {
	return "developers"
}

func (d *Developer) Validate() error {
	if d.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Developer email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
