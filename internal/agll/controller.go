package agll

// Metrics is the set of signals the escalation-score controller combines
// to decide whether a failed ALL(*) prediction is worth escalating to
// the full GLL engine.
type Metrics struct {
	// DescriptorGrowthRate estimates how fast the GLL worklist would
	// grow if invoked here, in [0,1] (0 = no growth expected, 1 = rapid).
	DescriptorGrowthRate float64
	// MaxGSSDepth is the deepest call-stack nesting observed so far.
	MaxGSSDepth int
	// MaxLookahead is the deepest adaptive lookahead Predict used before
	// giving up.
	MaxLookahead int
	// SPPFNodeGrowth estimates forest growth, in [0,1].
	SPPFNodeGrowth float64
}

// Controller implements spec.md's escalation policy: a weighted score
// over Metrics, normalized into [0,1], escalating to GLL when the score
// meets the threshold or during the first few escalations (a warm-up
// period where there isn't yet enough history to trust the score).
type Controller struct {
	threshold   float64
	weights     [4]float64
	escalations int
}

const (
	warmupEscalations  = 3
	gssDepthNormalizer = 50.0
)

// NewController returns a Controller with spec.md's default weights
// (0.30/0.25/0.25/0.20) and threshold (0.5).
func NewController() *Controller {
	return &Controller{
		threshold: 0.5,
		weights:   [4]float64{0.30, 0.25, 0.25, 0.20},
	}
}

// Score computes the weighted escalation score in [0,1].
func (c *Controller) Score(m Metrics) float64 {
	descriptor := clamp01(m.DescriptorGrowthRate)
	depth := clamp01(float64(m.MaxGSSDepth) / gssDepthNormalizer)
	lookahead := clamp01(float64(m.MaxLookahead) / float64(maxLookahead))
	sppf := clamp01(m.SPPFNodeGrowth)
	return c.weights[0]*descriptor + c.weights[1]*depth + c.weights[2]*lookahead + c.weights[3]*sppf
}

// ShouldEscalate reports whether a prediction failure at the current
// point should escalate to GLL. The first warmupEscalations calls always
// escalate (there isn't yet a meaningful trend to score against);
// afterward, escalation follows Score against the threshold.
func (c *Controller) ShouldEscalate(m Metrics) bool {
	c.escalations++
	if c.escalations <= warmupEscalations {
		return true
	}
	return c.Score(m) >= c.threshold
}

// Escalations reports how many times ShouldEscalate has been called.
func (c *Controller) Escalations() int {
	return c.escalations
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
