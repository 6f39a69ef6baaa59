package theme

type Theme interface {
	RenderNote(skinOffset int) string
	RenderLongBody(skinOffset int) string
	RenderMine() string
	RenderHitField(skinOffset int) string
	RenderJudge(tier int) string
	RenderGauge(value float32, qualified bool) string
}
