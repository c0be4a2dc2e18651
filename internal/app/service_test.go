package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/scout/internal/adapters/repository"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/player"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/internal/domain/sorting"
	. "github.com/smartystreets/goconvey/convey"
)

func squad() []*player.Record {
	save := 80.0
	return []*player.Record{
		{Name: "Ada Alpha", LastName: "alpha", Position: "FW", Competition: "La Liga", Squad: "Real Madrid", Nation: "es ESP", Age: 25,
			Goals: 20, Assists: 5, GoalsAssists: 25, MatchesPlayed: 30, Minutes: 2700, MinutesPer90: 30},
		{Name: "Bo Beta", LastName: "beta", Position: "FW", Competition: "La Liga", Squad: "Barcelona", Nation: "es ESP", Age: 22,
			Goals: 20, Assists: 8, GoalsAssists: 28, MatchesPlayed: 30, Minutes: 1350, MinutesPer90: 15},
		{Name: "Cy Gamma", LastName: "gamma", Position: "MF", Competition: "La Liga", Squad: "Barcelona", Nation: "br BRA", Age: 19,
			Goals: 5, Assists: 10, GoalsAssists: 15, MatchesPlayed: 2, Minutes: 180, MinutesPer90: 2},
		{Name: "Di Delta", LastName: "delta", Position: "DF", Competition: "Serie A", Squad: "Inter", Nation: "it ITA", Age: 30,
			Goals: 1, Assists: 1, GoalsAssists: 2, MatchesPlayed: 20, Minutes: 1620, MinutesPer90: 18},
		{Name: "Ed Epsilon", LastName: "epsilon", Position: "GK", Competition: "Serie A", Squad: "Inter", Nation: "it ITA", Age: 33,
			MatchesPlayed: 25, Minutes: 2250, MinutesPer90: 25, SavePercentage: &save},
	}
}

func newService(opts ...service.Option) *service.Service {
	store := repository.NewMemoryStore(repository.WithRecords(squad()...))
	return service.New(append([]service.Option{service.WithStore(store)}, opts...)...)
}

func names(views []service.PlayerView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new service", t, func() {
		svc := newService()

		Convey("Then stats report it as stopped", func() {
			So(svc.GetStats(ctx)["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats(ctx)

			Convey("Then stats include the player count", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["totalPlayers"], ShouldEqual, 5)
				So(stats["sortOptions"], ShouldEqual, 27)
				So(stats["leaderboardMinMatches"], ShouldEqual, service.DefaultMinMatches)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a seed file that does not exist", t, func() {
		svc := service.New(service.WithSeedCSV("/nonexistent/players.csv"))

		Convey("Then Start fails with ErrSeed", func() {
			So(errors.Is(svc.Start(ctx), service.ErrSeed), ShouldBeTrue)
		})
	})
}

func TestService_ListPlayers(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with five players", t, func() {
		svc := newService()

		Convey("The default order is goals then assists, both descending", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{})
			So(err, ShouldBeNil)
			So(page.Count, ShouldEqual, 5)
			So(page.Page, ShouldEqual, 1)
			So(page.PageSize, ShouldEqual, service.DefaultPageSize)
			So(names(page.Results), ShouldResemble, []string{"Bo Beta", "Ada Alpha", "Cy Gamma", "Di Delta", "Ed Epsilon"})
		})

		Convey("Pages slice the ordered listing and count ignores paging", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{Page: 2, PageSize: 2})
			So(err, ShouldBeNil)
			So(page.Count, ShouldEqual, 5)
			So(names(page.Results), ShouldResemble, []string{"Cy Gamma", "Di Delta"})
		})

		Convey("Page sizes are capped", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{PageSize: 1000})
			So(err, ShouldBeNil)
			So(page.PageSize, ShouldEqual, service.MaxPageSize)
		})

		Convey("A negative page is rejected", func() {
			_, err := svc.ListPlayers(ctx, service.ListRequest{Page: -1})
			So(errors.Is(err, service.ErrInvalidPage), ShouldBeTrue)
		})

		Convey("Stored attributes sort in either direction", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{SortBy: "age", Ascending: true})
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Cy Gamma", "Bo Beta", "Ada Alpha", "Di Delta", "Ed Epsilon"})

			page, err = svc.ListPlayers(ctx, service.ListRequest{SortBy: "name"})
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Cy Gamma", "Ed Epsilon", "Di Delta", "Bo Beta", "Ada Alpha"})
		})

		Convey("Derived metrics sort and page too", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{SortBy: "goals_per_90", PageSize: 2})
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Cy Gamma", "Bo Beta"})
			So(page.Results[0].GoalsPer90, ShouldEqual, 2.5)

			page, err = svc.ListPlayers(ctx, service.ListRequest{SortBy: "goals_per_90", Page: 9})
			So(err, ShouldBeNil)
			So(page.Results, ShouldBeEmpty)
		})

		Convey("Filters narrow the listing", func() {
			page, err := svc.ListPlayers(ctx, service.ListRequest{Filter: service.Filter{Competition: "Serie A"}})
			So(err, ShouldBeNil)
			So(page.Count, ShouldEqual, 2)
			So(names(page.Results), ShouldResemble, []string{"Di Delta", "Ed Epsilon"})

			page, err = svc.ListPlayers(ctx, service.ListRequest{Filter: service.Filter{RegularPlayers: true}})
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Bo Beta", "Ada Alpha", "Di Delta", "Ed Epsilon"})

			page, err = svc.ListPlayers(ctx, service.ListRequest{Filter: service.Filter{AgeMax: repository.Float(22)}})
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Bo Beta", "Cy Gamma"})
		})

		Convey("An unknown sort key fails with the valid keys", func() {
			_, err := svc.ListPlayers(ctx, service.ListRequest{SortBy: "pace"})
			So(errors.Is(err, sorting.ErrInvalidSortOption), ShouldBeTrue)
			var ie *sorting.InvalidSortOptionError
			So(errors.As(err, &ie), ShouldBeTrue)
			So(ie.Valid, ShouldContain, "goals")
		})

		Convey("Search matches squads as well as names", func() {
			page, err := svc.Search(ctx, "barc", service.Filter{}, 1, 10)
			So(err, ShouldBeNil)
			So(names(page.Results), ShouldResemble, []string{"Bo Beta", "Cy Gamma"})
		})
	})
}

func TestService_Player(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with five players", t, func() {
		svc := newService()

		Convey("A known id returns derived metrics and a style", func() {
			d, err := svc.Player(ctx, 2)
			So(err, ShouldBeNil)
			So(d.Name, ShouldEqual, "Bo Beta")
			So(d.GoalsPer90, ShouldAlmostEqual, 20.0/15)
			So(d.MinutesPerGame, ShouldEqual, 45)
			So(d.StyleDescription, ShouldStartWith, "attacking player")
		})

		Convey("An unknown id is not found", func() {
			_, err := svc.Player(ctx, 99)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with five players", t, func() {
		svc := newService()

		Convey("Goals ties break by id and standings start at one", func() {
			lb, err := svc.Leaderboard(ctx, "", 2, service.Filter{})
			So(err, ShouldBeNil)
			So(lb.Stat, ShouldEqual, "goals")
			So(lb.StatInfo.Label, ShouldEqual, "Goals")
			So(lb.TotalCount, ShouldEqual, 2)
			So(lb.Players[0].Name, ShouldEqual, "Ada Alpha")
			So(lb.Players[0].Standing, ShouldEqual, 1)
			So(lb.Players[1].Name, ShouldEqual, "Bo Beta")
			So(lb.Players[1].Standing, ShouldEqual, 2)
		})

		Convey("Players below the minimum matches are left out", func() {
			lb, err := svc.Leaderboard(ctx, "goals_per_90", 10, service.Filter{})
			So(err, ShouldBeNil)
			got := make([]string, len(lb.Players))
			for i, p := range lb.Players {
				got[i] = p.Name
			}
			So(got, ShouldResemble, []string{"Bo Beta", "Ada Alpha", "Di Delta", "Ed Epsilon"})
		})

		Convey("The minimum is configurable", func() {
			lb, err := newService(service.WithLeaderboardMinMatches(0)).Leaderboard(ctx, "goals_per_90", 1, service.Filter{})
			So(err, ShouldBeNil)
			So(lb.Players[0].Name, ShouldEqual, "Cy Gamma")
		})

		Convey("Unknown stats and bad limits are rejected", func() {
			_, err := svc.Leaderboard(ctx, "pace", 10, service.Filter{})
			So(errors.Is(err, sorting.ErrInvalidSortOption), ShouldBeTrue)
			_, err = svc.Leaderboard(ctx, "goals", 0, service.Filter{})
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestService_Similar(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with five players", t, func() {
		svc := newService()

		Convey("Results never include the target", func() {
			for _, st := range similarity.Strategies() {
				res, err := svc.Similar(ctx, 1, 5, st)
				So(err, ShouldBeNil)
				So(res.Player.ID, ShouldEqual, 1)
				So(res.Method, ShouldEqual, st)
				So(res.TotalFound, ShouldEqual, len(res.SimilarPlayers))
				for _, p := range res.SimilarPlayers {
					So(p.ID, ShouldNotEqual, 1)
				}
			}
		})

		Convey("An unknown player is not found", func() {
			_, err := svc.Similar(ctx, 99, 5, similarity.Hybrid)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("A disabled engine refuses", func() {
			_, err := newService(service.WithSimilarityEnabled(false)).Similar(ctx, 1, 5, similarity.Hybrid)
			So(errors.Is(err, similarity.ErrDisabled), ShouldBeTrue)
		})
	})
}

func TestService_SortOptions(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with the default catalog", t, func() {
		svc := newService()

		Convey("The catalog groups every option", func() {
			cat := svc.SortOptions("")
			So(len(cat.AllOptions), ShouldEqual, 27)
			So(len(cat.AvailableCategories), ShouldEqual, 10)
			So(len(cat.Categories["goalkeeper"]), ShouldEqual, 3)
			So(cat.Categories["basic"][0].DisplayName, ShouldEqual, "Name (A-Z)")
		})

		Convey("A category restricts the options but not the category list", func() {
			cat := svc.SortOptions("discipline")
			So(len(cat.AllOptions), ShouldEqual, 2)
			So(len(cat.Categories), ShouldEqual, 1)
			So(len(cat.AvailableCategories), ShouldEqual, 10)
		})

		Convey("Categories map to options by key", func() {
			byCat := svc.Categories()
			So(len(byCat), ShouldEqual, 10)
			So(byCat["passing"], ShouldContainKey, "key_passes")
		})

		Convey("Registered options are usable immediately", func() {
			err := svc.RegisterSortOption(ctx, sorting.Option{
				Key: "shots", Label: "Shots", Field: "shots", Category: sorting.CategoryShooting,
			})
			So(err, ShouldBeNil)
			_, err = svc.Leaderboard(ctx, "shots", 3, service.Filter{})
			So(err, ShouldBeNil)

			So(svc.UnregisterSortOption(ctx, "shots"), ShouldBeNil)
			_, err = svc.Leaderboard(ctx, "shots", 3, service.Filter{})
			So(errors.Is(err, sorting.ErrInvalidSortOption), ShouldBeTrue)
		})

		Convey("Bad registrations are rejected", func() {
			err := svc.RegisterSortOption(ctx, sorting.Option{Key: "pace", Field: "pace"})
			So(errors.Is(err, sorting.ErrUnknownField), ShouldBeTrue)
			So(errors.Is(svc.UnregisterSortOption(ctx, "pace"), service.ErrSortOptionNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Distinct(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with five players", t, func() {
		svc := newService()

		Convey("Distinct values come back sorted", func() {
			got, err := svc.Distinct(ctx, "position")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"DF", "FW", "GK", "MF"})
		})

		Convey("Unknown fields are rejected", func() {
			_, err := svc.Distinct(ctx, "age")
			So(errors.Is(err, repository.ErrUnknownField), ShouldBeTrue)
		})
	})
}
