// Package geo supplies device positions to the work form.
package geo

import (
	"context"
	"errors"
	"math"
)

// Position is a raw fix; the work form stamps the capture time itself.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var (
	ErrUnsupported = errors.New("Geolocation is not supported by your browser.")
	ErrDenied      = errors.New("Unable to access location. Please allow location access or enter manually.")
)

type Provider interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Func adapts a function to Provider.
type Func func(ctx context.Context) (Position, error)

func (f Func) CurrentPosition(ctx context.Context) (Position, error) { return f(ctx) }

// Fixed always reports p.
func Fixed(p Position) Provider {
	return Func(func(context.Context) (Position, error) { return p, nil })
}

// Failing always fails with err.
func Failing(err error) Provider {
	return Func(func(context.Context) (Position, error) { return Position{}, err })
}

type reportedKey struct{}

type reported struct {
	pos Position
	err error
}

// WithPosition attaches the position the browser reported to ctx.
func WithPosition(ctx context.Context, p Position) context.Context {
	return context.WithValue(ctx, reportedKey{}, reported{pos: p})
}

// WithError records that the browser could not produce a fix.
func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, reportedKey{}, reported{err: err})
}

// Reported answers with whatever the request carried. A request with nothing
// attached means the client has no geolocation at all.
func Reported() Provider {
	return Func(func(ctx context.Context) (Position, error) {
		r, ok := ctx.Value(reportedKey{}).(reported)
		if !ok {
			return Position{}, ErrUnsupported
		}
		return r.pos, r.err
	})
}

// Valid reports whether p is a point on Earth.
func (p Position) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Round6 rounds to six decimal places, about 11 cm.
func Round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
