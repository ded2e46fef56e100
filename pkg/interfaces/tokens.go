package interfaces

// TokenGenerator yields the tokens used to disambiguate identifier attributes
// in presentation output. Next is invoked once per identifier-bearing node and
// may be called from concurrent parse calls.
type TokenGenerator interface {
	Next() string
}
