package similarity

import (
	"testing"

	"github.com/okian/scout/internal/domain/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFuse(t *testing.T) {
	Convey("Given statistical and NLP result lists", t, func() {
		a := &player.Record{ID: 1}
		b := &player.Record{ID: 2}
		c := &player.Record{ID: 3}
		stat := []Match{{Player: a, Score: 0.8}, {Player: b, Score: 0.9}}
		text := []Match{{Player: b, Score: 0.5}, {Player: c, Score: 0.75}}

		fused := rank(fuse(stat, text), 10)

		Convey("Then a candidate found only statistically keeps 0.6 of its score", func() {
			var got float64
			for _, m := range fused {
				if m.Player.ID == 1 {
					got = m.Score
				}
			}
			So(got, ShouldAlmostEqual, 0.48)
		})

		Convey("Then both sides are combined with fixed weights", func() {
			So(fused[0].Player.ID, ShouldEqual, 2)
			So(fused[0].Score, ShouldAlmostEqual, 0.6*0.9+0.4*0.5)
			So(fused[2].Player.ID, ShouldEqual, 3)
			So(fused[2].Score, ShouldAlmostEqual, 0.3)
		})

		Convey("Then fused scores below the threshold survive", func() {
			So(len(fused), ShouldEqual, 3)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given equal scores", t, func() {
		ms := []Match{
			{Player: &player.Record{ID: 9}, Score: 0.8},
			{Player: &player.Record{ID: 3}, Score: 0.8},
			{Player: &player.Record{ID: 5}, Score: 0.9},
		}
		out := rank(ms, 2)

		Convey("Then ids break the tie and the limit applies", func() {
			So(len(out), ShouldEqual, 2)
			So(out[0].Player.ID, ShouldEqual, 5)
			So(out[1].Player.ID, ShouldEqual, 3)
		})
	})
}
