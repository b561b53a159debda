package sustenance

// Provider is the capability interface downstream collaborators hold
// instead of reaching into the system by name. The HUD, the journal and
// the difficulty scaler consume exactly this surface.
type Provider interface {
	SeverityLabel() string
	FillFraction() float64
}
