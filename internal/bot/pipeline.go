package bot

import (
	"fortyone/internal/bot/brain"
	"fortyone/internal/domain"
)

// PlayRule is one step of the card decision pipeline. The first rule that
// decides wins; later rules are skipped.
type PlayRule interface {
	Name() string
	Apply(ctx *PlayContext)
}

// runPipeline applies rules in order and returns the chosen card. The lowest
// legal card is the fallback when no rule decides.
func runPipeline(ctx *PlayContext, rules []PlayRule) (domain.Card, string) {
	for _, rule := range rules {
		rule.Apply(ctx)
		if ctx.Decided {
			return ctx.Choice, rule.Name()
		}
	}
	return ctx.lowest(), "Fallback"
}

// DumpBrownZeroRule sheds the -3 card into a trick the team is losing anyway.
type DumpBrownZeroRule struct{}

func (r *DumpBrownZeroRule) Name() string { return "DumpBrownZero" }

func (r *DumpBrownZeroRule) Apply(ctx *PlayContext) {
	if ctx.Position == 0 || ctx.PartnerWinning {
		return
	}
	for _, card := range ctx.Legal {
		if card.IsBrownZero() && !ctx.wouldWin(card) {
			ctx.choose(card)
			return
		}
	}
}

// CaptureRedZeroRule takes a trick holding the +5 card from the opponents.
type CaptureRedZeroRule struct{}

func (r *CaptureRedZeroRule) Name() string { return "CaptureRedZero" }

func (r *CaptureRedZeroRule) Apply(ctx *PlayContext) {
	if !ctx.OpponentWinning || !ctx.Trick.Contains(domain.Card{Color: domain.ColorRed, Value: 0}) {
		return
	}
	if card, ok := ctx.cheapestWinning(); ok {
		ctx.choose(card)
	}
}

// SupportPartnerRule ducks with a plain card when the partner already holds
// the trick late in the rotation.
type SupportPartnerRule struct{}

func (r *SupportPartnerRule) Name() string { return "SupportPartner" }

func (r *SupportPartnerRule) Apply(ctx *PlayContext) {
	if ctx.PartnerWinning && ctx.Position >= 2 {
		ctx.choose(ctx.lowestNonSpecial())
	}
}

// SeatRule applies position play: lead a medium card of the longest plain
// color, win cheaply in second seat, and contest or duck late.
type SeatRule struct{}

func (r *SeatRule) Name() string { return "Seat" }

func (r *SeatRule) Apply(ctx *PlayContext) {
	switch ctx.Position {
	case 0:
		ctx.choose(ctx.mediumOfLongestColor())
	case 1:
		if card, ok := ctx.cheapestWinning(); ok {
			ctx.choose(card)
			return
		}
		ctx.choose(ctx.lowest())
	default:
		if ctx.PartnerWinning {
			ctx.choose(ctx.lowest())
			return
		}
		if card, ok := ctx.cheapestWinning(); ok {
			ctx.choose(card)
			return
		}
		ctx.choose(ctx.lowest())
	}
}

// BossLeadRule leads a card no other player can beat in its color, as long as
// no opponent has shown out of that color and could trump it.
type BossLeadRule struct{}

func (r *BossLeadRule) Name() string { return "BossLead" }

func (r *BossLeadRule) Apply(ctx *PlayContext) {
	if ctx.Position != 0 || ctx.Trump == nil {
		return
	}
	mem := brain.FromRound(ctx.Game.Round, ctx.Player.Hand)
	var opponents []string
	for _, p := range ctx.Game.Players {
		if p.Team != ctx.Player.Team {
			opponents = append(opponents, p.ID)
		}
	}
	for _, card := range ctx.sortedByCost(ctx.Legal) {
		if ctx.isTrump(card) || card.IsSpecial() || !mem.IsBoss(card) || mem.Outstanding(card.Color) == 0 {
			continue
		}
		safe := true
		for _, id := range opponents {
			if mem.IsVoid(id, card.Color) {
				safe = false
				break
			}
		}
		if safe {
			ctx.choose(card)
			return
		}
	}
}

func defaultRules() []PlayRule {
	return []PlayRule{
		&DumpBrownZeroRule{},
		&CaptureRedZeroRule{},
		&SupportPartnerRule{},
		&SeatRule{},
	}
}

func countingRules() []PlayRule {
	return []PlayRule{
		&DumpBrownZeroRule{},
		&CaptureRedZeroRule{},
		&SupportPartnerRule{},
		&BossLeadRule{},
		&SeatRule{},
	}
}
