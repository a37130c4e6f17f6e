package geolocation

import "context"

// StrictCapabilities requires precise, approximate and background location to
// be granted together in a single joint request.
type StrictCapabilities struct {
	Granter Granter
}

func (c *StrictCapabilities) Request(ctx context.Context) error {
	granted, err := c.Granter.Request(ctx, CapabilityPrecise, CapabilityApproximate, CapabilityBackground)
	if err != nil {
		return err
	}
	if !granted[CapabilityPrecise] || !granted[CapabilityApproximate] || !granted[CapabilityBackground] {
		return ErrPermissionDenied
	}
	return nil
}

func (c *StrictCapabilities) SupportsBackgroundGrant() bool { return true }

// AdvisoryCapabilities is for platforms without a distinct background grant:
// it surfaces a notice about background tracking reliability and proceeds
// without a blocking check.
type AdvisoryCapabilities struct {
	Notifier Notifier
}

func (c *AdvisoryCapabilities) Request(context.Context) error {
	if c.Notifier != nil {
		c.Notifier.Notify("Background Location",
			`To keep tracking your ride in the background, please allow "Always" location access when prompted.`)
	}
	return nil
}

func (c *AdvisoryCapabilities) SupportsBackgroundGrant() bool { return false }

// AlwaysGrant is a Granter that grants (or denies) everything, used by the
// tracker binary where there is no interactive platform prompt.
type AlwaysGrant struct {
	Deny bool
}

func (g AlwaysGrant) Request(_ context.Context, caps ...Capability) (map[Capability]bool, error) {
	granted := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		granted[c] = !g.Deny
	}
	return granted, nil
}
