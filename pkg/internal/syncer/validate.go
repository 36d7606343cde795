package syncer

import (
	"fmt"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/mdobak/go-xerrors"
)

var validation = validator.New(validator.WithRequiredStructEnabled())

// check applies the form rules before anything is sent.
func (v *Client) check(in any) error {
	if err := validation.Struct(in); err != nil {
		err = xerrors.New(fmt.Errorf("%w: %s", services.ErrInvalid, err.Error()))
		v.Toasts.Error(Message(err))
		return err
	}
	return nil
}
