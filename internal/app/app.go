// Package app содержит пример прикладного кода, вызовы которого проходят
// через перехватчик: контроллер фильтрации пользователей и сервис с
// тремя шагами.
package app

import (
	"context"
	"strings"

	"github.com/Kargones/logon/internal/interceptor"
	"github.com/Kargones/logon/internal/masking"
	"github.com/Kargones/logon/internal/pkg/apperrors"
)

// Имена компонентов в записях.
const (
	ComponentController = "UserController"
	ComponentService    = "UserService"

	MethodFilterUsers = "filterUsers"
)

// FilterResult — ответ успешной фильтрации.
const FilterResult = "user filtered successfully"

// UserFilter — параметры фильтрации.
type UserFilter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterMethods регистрирует перехватываемые методы приложения.
// Аргумент filterUsers содержит email, поэтому маскируется.
func RegisterMethods(reg *interceptor.Registry) error {
	if err := reg.Register(ComponentController, MethodFilterUsers, interceptor.MethodOptions{Mask: true}); err != nil {
		return err
	}
	for _, m := range []string{"a", "b", "c"} {
		if err := reg.Register(ComponentService, m, interceptor.MethodOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// UserService — шаги обработки, каждый перехватывается отдельно.
type UserService struct {
	reg *interceptor.Registry
}

// NewUserService создаёт UserService.
func NewUserService(reg *interceptor.Registry) *UserService {
	return &UserService{reg: reg}
}

func (s *UserService) step(ctx context.Context, method string) error {
	return interceptor.Do(ctx, s.reg.Interceptor(), s.reg.Invocation(ComponentService, method),
		func(context.Context) error { return nil })
}

func (s *UserService) A(ctx context.Context) error { return s.step(ctx, "a") }
func (s *UserService) B(ctx context.Context) error { return s.step(ctx, "b") }
func (s *UserService) C(ctx context.Context) error { return s.step(ctx, "c") }

// UserController — точка входа фильтрации.
type UserController struct {
	reg     *interceptor.Registry
	service *UserService
}

// NewUserController создаёт UserController.
func NewUserController(reg *interceptor.Registry, service *UserService) *UserController {
	return &UserController{reg: reg, service: service}
}

// FilterUsers проверяет фильтр и выполняет шаги a, b, c, a сервиса.
// Аргумент логируется в JSON-форме.
func (c *UserController) FilterUsers(ctx context.Context, filter UserFilter) (string, error) {
	inv := c.reg.Invocation(ComponentController, MethodFilterUsers, masking.JSON(filter))
	return interceptor.Call(ctx, c.reg.Interceptor(), inv, func(ctx context.Context) (string, error) {
		if strings.TrimSpace(filter.Email) == "" {
			err := apperrors.NewKindError(apperrors.KindIllegalArgument, "email required")
			err.Status = 400
			return "", err
		}
		for _, step := range []func(context.Context) error{c.service.A, c.service.B, c.service.C, c.service.A} {
			if err := step(ctx); err != nil {
				return "", err
			}
		}
		return FilterResult, nil
	})
}
