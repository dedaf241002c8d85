package interceptor

import "context"

// Call выполняет fn через перехватчик и возвращает типизированный результат.
//
//	users, err := interceptor.Call(ctx, ic, inv, func(ctx context.Context) ([]User, error) {
//	    return repo.Find(ctx, filter)
//	})
func Call[T any](ctx context.Context, ic *Interceptor, inv Invocation, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	_, err := ic.Intercept(ctx, inv, func(ctx context.Context) (any, error) {
		var err error
		out, err = fn(ctx)
		return out, err
	})
	return out, err
}

// Do выполняет fn без результата через перехватчик.
func Do(ctx context.Context, ic *Interceptor, inv Invocation, fn func(ctx context.Context) error) error {
	_, err := ic.Intercept(ctx, inv, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Wrap возвращает функцию той же сигнатуры, что и fn, каждый вызов которой
// проходит через перехватчик. Аргумент попадает в запись entry.
func Wrap[A, R any](ic *Interceptor, component, method string, mask bool, fn func(ctx context.Context, arg A) (R, error)) func(ctx context.Context, arg A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		inv := Invocation{Component: component, Method: method, Args: []any{arg}, Mask: mask}
		return Call(ctx, ic, inv, func(ctx context.Context) (R, error) {
			return fn(ctx, arg)
		})
	}
}
