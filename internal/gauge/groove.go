package gauge

// Gauge is a single health curve with its per-tier deltas pre-computed for
// the chart's #TOTAL and note count. A value of 0 is dead and never recovers.
type Gauge struct {
	value   float32
	element Element
	values  [6]float32
}

func NewGauge(element Element, total float64, notes int) *Gauge {
	values := element.Values
	if element.Modifier != ModifierNone {
		for i := range values {
			values[i] = element.Modifier.Modify(values[i], total, notes)
		}
	}
	return &Gauge{
		value:   element.Init,
		element: element,
		values:  values,
	}
}

// Update applies one judgement at the given rate, with guts damage
// reduction for negative deltas.
func (g *Gauge) Update(tier int, rate float32) {
	if tier < 0 || tier >= len(g.values) {
		return
	}
	inc := g.values[tier] * rate
	if inc < 0 {
		for _, gut := range g.element.Guts {
			if g.value < gut.Threshold {
				inc *= gut.Multiplier
				break
			}
		}
	}
	g.SetValue(g.value + inc)
}

// SetValue clamps into [min, max] and floors to 0 below the death
// threshold. Dead gauges stay at 0.
func (g *Gauge) SetValue(value float32) {
	if g.value <= 0 {
		return
	}
	switch {
	case value < g.element.Min:
		g.value = g.element.Min
	case value > g.element.Max:
		g.value = g.element.Max
	default:
		g.value = value
	}
	if g.value < g.element.Death {
		g.value = 0
	}
}

func (g *Gauge) Value() float32 {
	return g.value
}

// IsQualified reports whether the gauge clears: alive and at or over
// the border.
func (g *Gauge) IsQualified() bool {
	return g.value > 0 && g.value >= g.element.Border
}

func (g *Gauge) IsMax() bool {
	return g.value == g.element.Max
}

func (g *Gauge) IsDead() bool {
	return g.value == 0
}

func (g *Gauge) Element() Element {
	return g.element
}

// Groove runs all nine gauge curves in parallel. Every judgement feeds
// every curve; the active type decides what is displayed and whether the
// play clears.
type Groove struct {
	gauges       [TypeCount]*Gauge
	activeType   Type
	originalType Type
}

func NewGroove(property *Property, active Type, total float64, notes int) *Groove {
	g := &Groove{activeType: active, originalType: active}
	for i := range g.gauges {
		g.gauges[i] = NewGauge(property.Elements[i], total, notes)
	}
	return g
}

func (g *Groove) Update(tier int) {
	g.UpdateWithRate(tier, 1.0)
}

func (g *Groove) UpdateWithRate(tier int, rate float32) {
	for _, gauge := range g.gauges {
		gauge.Update(tier, rate)
	}
}

func (g *Groove) AddValue(value float32) {
	for _, gauge := range g.gauges {
		gauge.SetValue(gauge.Value() + value)
	}
}

func (g *Groove) Value() float32 {
	return g.gauges[g.activeType].Value()
}

func (g *Groove) ValueOf(t Type) float32 {
	return g.gauges[t].Value()
}

func (g *Groove) SetValue(value float32) {
	for _, gauge := range g.gauges {
		gauge.SetValue(value)
	}
}

func (g *Groove) SetValueOf(t Type, value float32) {
	g.gauges[t].SetValue(value)
}

func (g *Groove) IsQualified() bool {
	return g.gauges[g.activeType].IsQualified()
}

func (g *Groove) ActiveType() Type {
	return g.activeType
}

func (g *Groove) SetActiveType(t Type) {
	g.activeType = t
}

func (g *Groove) IsTypeChanged() bool {
	return g.activeType != g.originalType
}

func (g *Groove) ActiveGauge() *Gauge {
	return g.gauges[g.activeType]
}

func (g *Groove) Gauge(t Type) *Gauge {
	return g.gauges[t]
}
