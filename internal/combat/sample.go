package combat

import "xivsim/internal/util"

// SampleDps rolls every hit of the result n times and reports the spread of
// the resulting DPS. Sample i only depends on seed and i.
func SampleDps[G any](res *Result[G], n int, seed int64) util.Summary {
	if n <= 0 {
		return util.Summary{}
	}
	values := make([]float64, n)
	for i := range values {
		rng := util.Stream(seed, i)
		total := 0.0
		for k := range res.Records {
			rec := &res.Records[k]
			if rec.Special {
				continue
			}
			total += rec.Hit.Roll(rng)
			if rec.Dot != nil {
				for j := 0; j < rec.Dot.Ticks; j++ {
					total += rec.Dot.Tick.Roll(rng)
				}
			}
		}
		values[i] = total / res.TotalTime
	}
	return util.Summarize(values)
}
