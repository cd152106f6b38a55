package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ScopeUserID != nil && *req.ScopeUserID <= 0 {
		return fmt.Errorf("%w: scope user id must be positive", ErrInvalidInput)
	}

	return nil
}
