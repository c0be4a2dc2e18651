package ingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `Rk,Player,Nation,Pos,Squad,Comp,Age,Born,MP,Starts,Min,90s,Gls,Ast,G+A,G-PK,PK,PKatt,CrdY,CrdR,xG,npxG,xAG,Sh,SoT,SoT%,Sh/90,SoT/90,Cmp,Att,Cmp%,KP,Tkl,TklW,Int,Sh_stats_defense,Clr,Touches,Att_stats_possession,Succ,Succ%,PrgC,PrgP,PrgR,GA,GA90,SoTA,Saves,Save%,CS
1,Kylian Mbappé,fr FRA,FW,Real Madrid,La Liga,26,1998,34,33,"2,905",32.3,31,3,34,24,7,8,4,0,26.5,20.6,4.1,135,70,51.9,4.18,2.17,565,670,84.3,37,8,5,2,7,3,"1,193",205,82,40.0,95,64,340,,,,,,
2,Thibaut Courtois,be BEL,GK,Real Madrid,La Liga,33,1992,30,30,"2,700",30.0,0,0,0,0,0,0,1,0,0.0,0.0,0.0,0,0,,0.0,0.0,700,900,77.8,0,0,0,0,0,10,900,0,0,,0,0,0,26,0.87,110,84,76.4,12
3,,es ESP,MF,Girona,La Liga,22,2003,10,2,300,3.3,0,0,0,0,0,0,0,0,0,0,0,0,0,,0,0,10,12,83,0,1,1,1,0,0,40,0,0,,0,0,0,,,,,,
4,Pedri,es ESP,MF,Barcelona,La Liga,22,2002,37,35,"3,000",33.3,4,8,12,4,0,0,6,0,3.5,3.5,7.9,40,15,37.5,1.2,0.45,"2,400","2,700",88.9,80,30,18,20,5,10,"3,100",60,40,66.7,80,300,120,,,,,,
`

func TestParseCSV(t *testing.T) {
	Convey("Given an FBref export", t, func() {
		recs, rowErrs, err := ingest.ParseCSV(strings.NewReader(sample))
		So(err, ShouldBeNil)
		So(rowErrs, ShouldBeEmpty)

		Convey("Rows without a name are skipped", func() {
			So(len(recs), ShouldEqual, 3)
		})

		Convey("Numbers with thousands separators are parsed", func() {
			mbappe := recs[0]
			So(mbappe.Name, ShouldEqual, "Kylian Mbappé")
			So(mbappe.LastName, ShouldEqual, "mbappe")
			So(mbappe.Minutes, ShouldEqual, 2905)
			So(mbappe.MinutesPer90, ShouldEqual, 32.3)
			So(mbappe.Touches, ShouldEqual, 1193)
			So(mbappe.Blocks, ShouldEqual, 7)
			So(mbappe.DribblesAttempted, ShouldEqual, 205)
			So(mbappe.SavePercentage, ShouldBeNil)
		})

		Convey("Goalkeeper stats are only set for goalkeepers", func() {
			gk := recs[1]
			So(gk.SavePercentage, ShouldNotBeNil)
			So(*gk.SavePercentage, ShouldEqual, 76.4)
			So(*gk.CleanSheets, ShouldEqual, 12)
			So(gk.ShotsOnTargetPercentage, ShouldEqual, 0)
		})

		Convey("Single-word names fold too", func() {
			So(recs[2].LastName, ShouldEqual, "pedri")
			So(recs[2].PassesCompleted, ShouldEqual, 2400)
		})
	})

	Convey("Given a CSV without the player column", t, func() {
		_, _, err := ingest.ParseCSV(strings.NewReader("Rk,Pos\n1,FW\n"))
		So(errors.Is(err, ingest.ErrMissingHeader), ShouldBeTrue)
	})

	Convey("Given empty input", t, func() {
		_, _, err := ingest.ParseCSV(strings.NewReader(""))
		So(err, ShouldNotBeNil)
	})
}

func TestFoldLastName(t *testing.T) {
	Convey("Given accented names", t, func() {
		So(ingest.FoldLastName("Martin Ødegaard"), ShouldEqual, "degaard")
		So(ingest.FoldLastName("Vinicius Júnior"), ShouldEqual, "junior")
		So(ingest.FoldLastName("  Luka   Modrić "), ShouldEqual, "modric")
		So(ingest.FoldLastName(""), ShouldEqual, "")
	})
}

type failingStore struct {
	*repository.MemoryStore
}

func (s *failingStore) Insert(context.Context, []*player.Record) (int, error) {
	return 0, errors.New("disk full")
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store", t, func() {
		store := repository.NewMemoryStore()

		Convey("Loading in small concurrent batches stores every row", func() {
			l := ingest.NewLoader(store, ingest.WithBatchSize(1), ingest.WithWorkers(3))
			sum, err := l.Load(ctx, strings.NewReader(sample))
			So(err, ShouldBeNil)
			So(sum.Created, ShouldEqual, 3)
			So(sum.Errors, ShouldEqual, 0)

			n, _ := store.Count(ctx, repository.Query{})
			So(n, ShouldEqual, 3)
		})

		Convey("Clearing replaces existing data", func() {
			_, _ = ingest.NewLoader(store).Load(ctx, strings.NewReader(sample))
			sum, err := ingest.NewLoader(store, ingest.WithClear(true)).Load(ctx, strings.NewReader(sample))
			So(err, ShouldBeNil)
			So(sum.Created, ShouldEqual, 3)
			n, _ := store.Count(ctx, repository.Query{})
			So(n, ShouldEqual, 3)
		})

		Convey("A missing file is an error", func() {
			_, err := ingest.NewLoader(store).LoadFile(ctx, "/nonexistent/players.csv")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a store that rejects inserts", t, func() {
		store := &failingStore{MemoryStore: repository.NewMemoryStore()}
		sum, err := ingest.NewLoader(store, ingest.WithBatchSize(2)).Load(ctx, strings.NewReader(sample))

		Convey("Failed batches are counted, not fatal", func() {
			So(err, ShouldBeNil)
			So(sum.Created, ShouldEqual, 0)
			So(sum.Errors, ShouldEqual, 3)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ingest.NewLoader(repository.NewMemoryStore()).Load(cctx, strings.NewReader(sample))
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}
