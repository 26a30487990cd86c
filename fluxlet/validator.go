package fluxlet

import "github.com/go-playground/validator/v10"

// TagValidator returns a state validator that checks `validate` struct tags
// using go-playground/validator. Register it with Given().Validator() when
// the state type carries validation tags:
//
//	type Counter struct {
//	    Value int `validate:"min=0"`
//	}
//
//	session.Given().Fluxlet().
//	    Validator(fluxlet.TagValidator[Counter]()).
//	    State(Counter{})
func TagValidator[S any]() func(next S) error {
	v := validator.New()
	return func(next S) error {
		return v.Struct(next)
	}
}
