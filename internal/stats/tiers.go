package stats

import "github.com/pkg/errors"

var ErrNoConvergence = errors.New("tier search did not converge")

const maxTierSearch = 5000

// NextGcdTier returns the smallest speed value above the current one that
// lowers the GCD produced by base, and the GCD it yields.
func (c *ComputedStats) NextGcdTier(base float64, at AttackType, haste float64) (int, float64, error) {
	speed, ok := c.speedFor(at)
	if !ok {
		return 0, 0, errors.Errorf("%s recast does not scale with speed", at)
	}
	current := gcdFor(base, speed, c.Level, haste)
	for i := 1; i <= maxTierSearch; i++ {
		if g := gcdFor(base, speed+i, c.Level, haste); g < current {
			return speed + i, g, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrNoConvergence, "base %.2f from speed %d", base, speed)
}
