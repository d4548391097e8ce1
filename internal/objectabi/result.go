package objectabi

import "fmt"

// Result is the value/error pair TRAP materializes when disarming a block
// armed by ST (spec §4.C "Error/trap": "ST off arms a trap ... TRAP off
// disarms it and materializes a Result(value, error) object on the stack").
type Result struct {
	Value Object
	Err   *ArError
}

func NewResult(value Object, err *ArError) *Result {
	return &Result{Value: value, Err: err}
}

var ResultType = &Type{
	Name:    "result",
	TruthOf: func(o Object) bool { return o.(*Result).Err == nil },
	Str: func(o Object) string {
		r := o.(*Result)
		if r.Err != nil {
			return fmt.Sprintf("Result(nil, %s)", r.Err.String())
		}
		return fmt.Sprintf("Result(%s, nil)", r.Value.String())
	},
	AttrGet: func(obj Object, name string, public bool) (Object, error) {
		r := obj.(*Result)
		switch name {
		case "value":
			if r.Value == nil {
				return NilValue, nil
			}
			return r.Value, nil
		case "error":
			if r.Err == nil {
				return NilValue, nil
			}
			return r.Err, nil
		default:
			return nil, fmt.Errorf("%w: result has no attribute %s", ErrNoAttr, name)
		}
	},
}

func (r *Result) Type() *Type    { return ResultType }
func (r *Result) String() string { return ResultType.Str(r) }
