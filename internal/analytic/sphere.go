package analytic

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
)

// Series engine defaults.
const (
	defaultTolerance = 1e-12
	defaultMaxTerms  = 300
	minTerms         = 8
)

// Option applies a configuration option to the SeriesEngine.
type Option func(*SeriesEngine)

// WithTolerance sets the relative truncation tolerance of the series.
func WithTolerance(tol float64) Option {
	return func(e *SeriesEngine) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithMaxTerms caps the number of series orders.
func WithMaxTerms(n int) Option {
	return func(e *SeriesEngine) {
		if n >= minTerms {
			e.maxTerms = n
		}
	}
}

// SeriesEngine implements Engine with the spherical-harmonics series
// solution for isotropic concentric layers: the infinite-medium dipole
// expansion in the innermost layer is propagated across every layer
// interface with a per-order 2x2 transfer step, closed by the
// no-outflow condition at the scalp surface.
//
// Electrodes are evaluated on the outer surface; off-surface positions
// are projected radially.
type SeriesEngine struct {
	tolerance float64
	maxTerms  int
}

// NewSeriesEngine creates a series engine with default truncation.
func NewSeriesEngine(opts ...Option) *SeriesEngine {
	e := &SeriesEngine{
		tolerance: defaultTolerance,
		maxTerms:  defaultMaxTerms,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// layer pairs a dimensionless radius (relative to the outer surface)
// with its conductivity.
type layer struct {
	radius float64
	sigma  float64
}

// Solve computes the surface potential at every electrode.
func (e *SeriesEngine) Solve(ctx context.Context, m model.SphereModel, d model.Dipole, electrodes []geometry.Vec3) ([]float64, error) {
	if len(electrodes) == 0 {
		return nil, ErrNoElectrodes
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	// Sort layers innermost-first, keeping each radius paired with its
	// conductivity. Input order is free in either direction.
	layers := make([]layer, geometry.LayerCount)
	for i := range layers {
		layers[i] = layer{radius: m.Radii[i], sigma: m.Conductivities[i]}
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].radius < layers[j].radius })

	outer := layers[len(layers)-1].radius
	for i := range layers {
		layers[i].radius /= outer
	}

	p := d.Position.Sub(m.Center)
	b := p.Norm()
	if b >= layers[0].radius*outer {
		return nil, fmt.Errorf("%w: eccentricity %g, innermost radius %g", ErrDipoleOutside, b, layers[0].radius*outer)
	}

	out := make([]float64, len(electrodes))
	ez, _, ok := d.Moment.Unit()
	if !ok {
		// Zero source produces zero potential everywhere.
		return out, nil
	}
	// The local axis follows the dipole position; a central dipole
	// falls back to the moment direction, where the split below is
	// purely radial.
	if b > 0 {
		ez = p.Scale(1 / b)
	}
	mr := d.Moment.Dot(ez)
	et, mt, tangential := d.Moment.Sub(ez.Scale(mr)).Unit()

	// Per-electrode angular state: cosTheta plus the tangential factor
	// mt*cos(phi)*sin(theta), folded into the Legendre derivative term.
	cosT := make([]float64, len(electrodes))
	tang := make([]float64, len(electrodes))
	for i, el := range electrodes {
		rhat, _, ok := el.Sub(m.Center).Unit()
		if !ok {
			return nil, fmt.Errorf("electrode %d: %w", i, ErrElectrodeCenter)
		}
		cosT[i] = clamp(rhat.Dot(ez), -1, 1)
		if tangential {
			tang[i] = mt * rhat.Dot(et)
		}
	}

	// Legendre recurrence state per electrode: P_{n-1}, P_n and the
	// derivatives P'_{n-1}, P'_n, started at n=1.
	pPrev := make([]float64, len(electrodes))
	pCur := make([]float64, len(electrodes))
	dPrev := make([]float64, len(electrodes))
	dCur := make([]float64, len(electrodes))
	for i, x := range cosT {
		pPrev[i] = 1
		pCur[i] = x
		dPrev[i] = 0
		dCur[i] = 1
	}

	bt := b / outer
	scale := 1 / (4 * math.Pi * layers[0].sigma * outer * outer)

	for n := 1; n <= e.maxTerms; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sn, err := surfaceCoefficient(layers, float64(n), bt)
		if err != nil {
			return nil, err
		}

		maxTerm, maxSum := 0.0, 0.0
		for i := range electrodes {
			term := sn * (float64(n)*mr*pCur[i] + tang[i]*dCur[i])
			out[i] += term
			if a := math.Abs(term); a > maxTerm {
				maxTerm = a
			}
			if a := math.Abs(out[i]); a > maxSum {
				maxSum = a
			}
		}
		// Terms decay geometrically with the dipole eccentricity, so
		// truncation at maxTerms is acceptable if the tolerance is
		// never reached.
		if n >= minTerms && maxTerm <= e.tolerance*maxSum {
			break
		}

		// Advance P_n and P'_n to order n+1.
		fn := float64(n)
		for i, x := range cosT {
			pNext := ((2*fn+1)*x*pCur[i] - fn*pPrev[i]) / (fn + 1)
			dNext := dPrev[i] + (2*fn+1)*pCur[i]
			pPrev[i], pCur[i] = pCur[i], pNext
			dPrev[i], dCur[i] = dCur[i], dNext
		}
	}

	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// surfaceCoefficient returns the order-n harmonic amplitude at the
// outer surface for a unit angular source term. The source part
// carries the infinite-medium coefficient bt^(n-1); the homogeneous
// part is fixed by the zero-current condition at the outer boundary.
func surfaceCoefficient(layers []layer, n, bt float64) (float64, error) {
	aH, bH := 1.0, 0.0
	aS, bS := 0.0, math.Pow(bt, n-1)
	for j := 0; j < len(layers)-1; j++ {
		t := layers[j].radius
		k := layers[j].sigma / layers[j+1].sigma
		aH, bH = transfer(aH, bH, t, k, n)
		aS, bS = transfer(aS, bS, t, k, n)
	}
	denom := n*aH - (n+1)*bH
	if denom == 0 {
		return 0, fmt.Errorf("%w: order %g", ErrSeriesDegenerate, n)
	}
	a1 := -(n*aS - (n+1)*bS) / denom
	return (a1*aH + aS) + (a1*bH + bS), nil
}

// transfer propagates the harmonic coefficients (a, b) of order n
// across the interface at dimensionless radius t between a layer of
// conductivity ratio k = sigma_inner/sigma_outer and its neighbour,
// enforcing continuity of potential and of radial current.
func transfer(a, b, t, k, n float64) (float64, float64) {
	tn := math.Pow(t, n)
	tm := math.Pow(t, -(n + 1))
	p := a * tn
	q := b * tm
	u := (p*(k*n+n+1) + q*(n+1)*(1-k)) / (2*n + 1)
	v := (p*n*(1-k) + q*(n+(n+1)*k)) / (2*n + 1)
	return u / tn, v / tm
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
