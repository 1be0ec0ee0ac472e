package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

// ValidationInterceptor checks the `validate` struct tags on every request
// message and rejects failures with invalid_argument before the handler
// runs.
func ValidationInterceptor() connect.UnaryInterceptorFunc {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if err := v.StructCtx(ctx, req.Any()); err != nil {
				var fieldErrs validator.ValidationErrors
				if errors.As(err, &fieldErrs) {
					return nil, connect.NewError(connect.CodeInvalidArgument, describe(fieldErrs))
				}
				var invalid *validator.InvalidValidationError
				if !errors.As(err, &invalid) {
					return nil, connect.NewError(connect.CodeInvalidArgument, err)
				}
			}
			return next(ctx, req)
		}
	}
}

func describe(errs validator.ValidationErrors) error {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid request: %s", strings.Join(parts, "; "))
}
