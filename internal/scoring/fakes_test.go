package scoring

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

type tableKey struct {
	year     f1.Year
	category f1.Category
}

type fakeTables struct {
	entries map[tableKey][]persistence.ScoringEntry
}

func newFakeTables() *fakeTables {
	return &fakeTables{entries: make(map[tableKey][]persistence.ScoringEntry)}
}

func (r *fakeTables) set(year f1.Year, category f1.Category, points map[f1.Diff]f1.Points) {
	key := tableKey{year, category}
	r.entries[key] = nil
	for diff, pts := range points {
		r.entries[key] = append(r.entries[key], persistence.ScoringEntry{Diff: diff, Points: pts})
	}
	sort.Slice(r.entries[key], func(i, j int) bool {
		return r.entries[key][i].Diff < r.entries[key][j].Diff
	})
}

func (r *fakeTables) DiffPoints(_ context.Context, year f1.Year, category f1.Category) ([]persistence.ScoringEntry, error) {
	return r.entries[tableKey{year, category}], nil
}

func (r *fakeTables) MaxDiff(_ context.Context, year f1.Year, category f1.Category) (f1.Diff, error) {
	entries := r.entries[tableKey{year, category}]
	if len(entries) == 0 {
		return 0, fmt.Errorf("no scoring entries: %w", f1.ErrNotConfigured)
	}
	return entries[len(entries)-1].Diff, nil
}

func (r *fakeTables) AddDiff(_ context.Context, year f1.Year, category f1.Category, diff f1.Diff) error {
	if diff < 0 {
		return f1.ErrInvalidDiff
	}
	key := tableKey{year, category}
	for _, e := range r.entries[key] {
		if e.Diff == diff {
			return f1.ErrDuplicateDiff
		}
	}
	r.entries[key] = append(r.entries[key], persistence.ScoringEntry{Diff: diff})
	return nil
}

func (r *fakeTables) SetPoints(_ context.Context, year f1.Year, category f1.Category, diff f1.Diff, points f1.Points) error {
	key := tableKey{year, category}
	for i, e := range r.entries[key] {
		if e.Diff == diff {
			r.entries[key][i].Points = points
		}
	}
	return nil
}

func (r *fakeTables) RemoveDiff(_ context.Context, year f1.Year, category f1.Category, diff f1.Diff) error {
	key := tableKey{year, category}
	kept := r.entries[key][:0]
	for _, e := range r.entries[key] {
		if e.Diff != diff {
			kept = append(kept, e)
		}
	}
	r.entries[key] = kept
	return nil
}

func (r *fakeTables) HasDiff(_ context.Context, year f1.Year, category f1.Category, diff f1.Diff) (bool, error) {
	for _, e := range r.entries[tableKey{year, category}] {
		if e.Diff == diff {
			return true, nil
		}
	}
	return false, nil
}

type pickKey struct {
	race     f1.RaceID
	category f1.Category
}

type fakeGuesses struct {
	guessers     []persistence.User
	flags        map[uuid.UUID]f1.Flags
	drivers      map[uuid.UUID][]persistence.RankedGuess
	constructors map[uuid.UUID][]persistence.RankedGuess
	picks        map[pickKey][]persistence.PlacePick
}

func newFakeGuesses() *fakeGuesses {
	return &fakeGuesses{
		flags:        make(map[uuid.UUID]f1.Flags),
		drivers:      make(map[uuid.UUID][]persistence.RankedGuess),
		constructors: make(map[uuid.UUID][]persistence.RankedGuess),
		picks:        make(map[pickKey][]persistence.PlacePick),
	}
}

func (r *fakeGuesses) SaveFlagGuesses(_ context.Context, guesser uuid.UUID, _ f1.Year, flags f1.Flags) error {
	r.flags[guesser] = flags
	return nil
}

func (r *fakeGuesses) FlagGuesses(_ context.Context, guesser uuid.UUID, _ f1.Year) (f1.Flags, bool, error) {
	flags, ok := r.flags[guesser]
	return flags, ok, nil
}

func (r *fakeGuesses) SaveDriverRanking(_ context.Context, guesser uuid.UUID, _ f1.Year, driver string, position int) error {
	r.drivers[guesser] = append(r.drivers[guesser], persistence.RankedGuess{Position: position, Name: driver})
	return nil
}

func (r *fakeGuesses) SaveConstructorRanking(_ context.Context, guesser uuid.UUID, _ f1.Year, constructor string, position int) error {
	r.constructors[guesser] = append(r.constructors[guesser], persistence.RankedGuess{Position: position, Name: constructor})
	return nil
}

func (r *fakeGuesses) DriverRanking(_ context.Context, guesser uuid.UUID, _ f1.Year) ([]persistence.RankedGuess, error) {
	return r.drivers[guesser], nil
}

func (r *fakeGuesses) ConstructorRanking(_ context.Context, guesser uuid.UUID, _ f1.Year) ([]persistence.RankedGuess, error) {
	return r.constructors[guesser], nil
}

func (r *fakeGuesses) SavePlacePick(_ context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category, driver string) error {
	key := pickKey{raceID, category}
	for i, p := range r.picks[key] {
		if p.Guesser == guesser {
			r.picks[key][i].Driver = driver
			return nil
		}
	}
	r.picks[key] = append(r.picks[key], persistence.PlacePick{Guesser: guesser, Driver: driver})
	return nil
}

func (r *fakeGuesses) PlacePick(_ context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category) (string, error) {
	for _, p := range r.picks[pickKey{raceID, category}] {
		if p.Guesser == guesser {
			return p.Driver, nil
		}
	}
	return "", f1.ErrNotFound
}

func (r *fakeGuesses) PlacePicks(_ context.Context, raceID f1.RaceID, category f1.Category) ([]persistence.PlacePick, error) {
	return r.picks[pickKey{raceID, category}], nil
}

func (r *fakeGuesses) SeasonGuessers(_ context.Context, _ f1.Year) ([]persistence.User, error) {
	return r.guessers, nil
}

type fakeSeasons struct {
	years        map[f1.Year]bool
	races        map[f1.RaceID]persistence.Race
	finished     map[f1.Year][]persistence.Race
	drivers      map[f1.Year][]string
	constructors map[f1.Year][]string
}

func newFakeSeasons() *fakeSeasons {
	return &fakeSeasons{
		years:        make(map[f1.Year]bool),
		races:        make(map[f1.RaceID]persistence.Race),
		finished:     make(map[f1.Year][]persistence.Race),
		drivers:      make(map[f1.Year][]string),
		constructors: make(map[f1.Year][]string),
	}
}

func (r *fakeSeasons) AddYear(_ context.Context, year f1.Year) error {
	r.years[year] = true
	return nil
}

func (r *fakeSeasons) IsValidYear(_ context.Context, year f1.Year) (bool, error) {
	return r.years[year], nil
}

func (r *fakeSeasons) Years(_ context.Context) ([]f1.Year, error) {
	var years []f1.Year
	for y := range r.years {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years, nil
}

func (r *fakeSeasons) AddRace(_ context.Context, raceID f1.RaceID, name string, year f1.Year, position int) error {
	r.races[raceID] = persistence.Race{ID: raceID, Name: name, Year: year, Position: position}
	return nil
}

func (r *fakeSeasons) Race(_ context.Context, raceID f1.RaceID) (persistence.Race, error) {
	race, ok := r.races[raceID]
	if !ok {
		return persistence.Race{}, fmt.Errorf("race %d: %w", raceID, f1.ErrNotFound)
	}
	return race, nil
}

func (r *fakeSeasons) Races(_ context.Context, year f1.Year) ([]persistence.Race, error) {
	var races []persistence.Race
	for _, race := range r.races {
		if race.Year == year {
			races = append(races, race)
		}
	}
	sort.Slice(races, func(i, j int) bool { return races[i].Position < races[j].Position })
	return races, nil
}

func (r *fakeSeasons) RacesFinished(_ context.Context, year f1.Year) ([]persistence.Race, error) {
	return r.finished[year], nil
}

func (r *fakeSeasons) LatestFinishedRace(_ context.Context, year f1.Year) (persistence.Race, error) {
	finished := r.finished[year]
	if len(finished) == 0 {
		return persistence.Race{}, fmt.Errorf("no finished race in %d: %w", year, f1.ErrNotFound)
	}
	return finished[len(finished)-1], nil
}

func (r *fakeSeasons) DriversYear(_ context.Context, year f1.Year) ([]string, error) {
	return r.drivers[year], nil
}

func (r *fakeSeasons) ConstructorsYear(_ context.Context, year f1.Year) ([]string, error) {
	return r.constructors[year], nil
}

func (r *fakeSeasons) AddDriverYear(_ context.Context, driver string, year f1.Year) error {
	r.drivers[year] = append(r.drivers[year], driver)
	return nil
}

func (r *fakeSeasons) AddConstructorYear(_ context.Context, constructor string, year f1.Year) error {
	r.constructors[year] = append(r.constructors[year], constructor)
	return nil
}

type fakeResults struct {
	driverStandings      map[f1.RaceID][]persistence.Standing
	constructorStandings map[f1.RaceID][]persistence.Standing
	raceResults          map[f1.RaceID][]persistence.RaceResultRow
	flagCounts           map[f1.Year]map[int]f1.Flags
}

func newFakeResults() *fakeResults {
	return &fakeResults{
		driverStandings:      make(map[f1.RaceID][]persistence.Standing),
		constructorStandings: make(map[f1.RaceID][]persistence.Standing),
		raceResults:          make(map[f1.RaceID][]persistence.RaceResultRow),
		flagCounts:           make(map[f1.Year]map[int]f1.Flags),
	}
}

func (r *fakeResults) SaveGridSlot(_ context.Context, _ f1.RaceID, _ int, _ string) error {
	return nil
}

func (r *fakeResults) StartingGrid(_ context.Context, _ f1.RaceID) ([]persistence.GridSlot, error) {
	return nil, nil
}

func (r *fakeResults) SaveRaceResultRow(_ context.Context, raceID f1.RaceID, row persistence.RaceResultRow) error {
	r.raceResults[raceID] = append(r.raceResults[raceID], row)
	return nil
}

func (r *fakeResults) RaceResult(_ context.Context, raceID f1.RaceID) ([]persistence.RaceResultRow, error) {
	return r.raceResults[raceID], nil
}

func (r *fakeResults) SaveDriverStanding(_ context.Context, raceID f1.RaceID, s persistence.Standing) error {
	r.driverStandings[raceID] = append(r.driverStandings[raceID], s)
	return nil
}

func (r *fakeResults) SaveConstructorStanding(_ context.Context, raceID f1.RaceID, s persistence.Standing) error {
	r.constructorStandings[raceID] = append(r.constructorStandings[raceID], s)
	return nil
}

func (r *fakeResults) DriverStandings(_ context.Context, raceID f1.RaceID) ([]persistence.Standing, error) {
	return r.driverStandings[raceID], nil
}

func (r *fakeResults) ConstructorStandings(_ context.Context, raceID f1.RaceID) ([]persistence.Standing, error) {
	return r.constructorStandings[raceID], nil
}

func (r *fakeResults) AddFlagStat(_ context.Context, _ f1.RaceID, _ string, _ int, _ string) error {
	return nil
}

func (r *fakeResults) RegisteredFlags(_ context.Context, _ f1.RaceID) ([]persistence.RegisteredFlag, error) {
	return nil, nil
}

func (r *fakeResults) FlagCounts(_ context.Context, year f1.Year, throughPosition int) (f1.Flags, error) {
	if throughPosition == 0 {
		return f1.Flags{}, nil
	}
	return r.flagCounts[year][throughPosition], nil
}

type fakeSnapshots struct {
	raceSummaries  map[f1.RaceID]map[uuid.UUID]f1.Summary
	yearStart      map[f1.Year]map[uuid.UUID]f1.Summary
	yearPlacements map[uuid.UUID][]persistence.YearPlacement
	saveErr        error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{
		raceSummaries:  make(map[f1.RaceID]map[uuid.UUID]f1.Summary),
		yearStart:      make(map[f1.Year]map[uuid.UUID]f1.Summary),
		yearPlacements: make(map[uuid.UUID][]persistence.YearPlacement),
	}
}

func (r *fakeSnapshots) SaveRaceSummary(_ context.Context, raceID f1.RaceID, guesser uuid.UUID, summary f1.Summary) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.raceSummaries[raceID] == nil {
		r.raceSummaries[raceID] = make(map[uuid.UUID]f1.Summary)
	}
	r.raceSummaries[raceID][guesser] = summary
	return nil
}

func (r *fakeSnapshots) SaveYearStartSummary(_ context.Context, year f1.Year, guesser uuid.UUID, summary f1.Summary) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.yearStart[year] == nil {
		r.yearStart[year] = make(map[uuid.UUID]f1.Summary)
	}
	r.yearStart[year][guesser] = summary
	return nil
}

func (r *fakeSnapshots) RaceSummary(_ context.Context, raceID f1.RaceID, guesser uuid.UUID) (f1.Summary, error) {
	summary, ok := r.raceSummaries[raceID][guesser]
	if !ok {
		return f1.Summary{}, fmt.Errorf("no snapshot: %w", f1.ErrNotFound)
	}
	return summary, nil
}

func (r *fakeSnapshots) YearStartSummary(_ context.Context, year f1.Year, guesser uuid.UUID) (f1.Summary, error) {
	summary, ok := r.yearStart[year][guesser]
	if !ok {
		return f1.Summary{}, fmt.Errorf("no snapshot: %w", f1.ErrNotFound)
	}
	return summary, nil
}

func (r *fakeSnapshots) RaceTotals(_ context.Context, raceID f1.RaceID) ([]persistence.GuesserPlacement, error) {
	return totalsOf(r.raceSummaries[raceID]), nil
}

func (r *fakeSnapshots) YearStartTotals(_ context.Context, year f1.Year) ([]persistence.GuesserPlacement, error) {
	return totalsOf(r.yearStart[year]), nil
}

func totalsOf(summaries map[uuid.UUID]f1.Summary) []persistence.GuesserPlacement {
	var totals []persistence.GuesserPlacement
	for id, s := range summaries {
		totals = append(totals, persistence.GuesserPlacement{
			Guesser: id,
			Pos:     s.Total.Pos,
			Points:  s.Total.Points,
		})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Pos < totals[j].Pos })
	return totals
}

func (r *fakeSnapshots) SaveYearPlacement(_ context.Context, year f1.Year, guesser uuid.UUID, pos f1.Position) error {
	for i, p := range r.yearPlacements[guesser] {
		if p.Year == year {
			r.yearPlacements[guesser][i].Pos = pos
			return nil
		}
	}
	r.yearPlacements[guesser] = append(r.yearPlacements[guesser], persistence.YearPlacement{Year: year, Pos: pos})
	return nil
}

func (r *fakeSnapshots) YearPlacements(_ context.Context, guesser uuid.UUID) ([]persistence.YearPlacement, error) {
	return r.yearPlacements[guesser], nil
}

func (r *fakeSnapshots) Medals(_ context.Context, guesser uuid.UUID) (f1.Medals, error) {
	var medals f1.Medals
	for _, p := range r.yearPlacements[guesser] {
		switch p.Pos {
		case 1:
			medals.Gold++
		case 2:
			medals.Silver++
		case 3:
			medals.Bronze++
		}
	}
	return medals, nil
}

var (
	_ persistence.ScoringTableRepo = (*fakeTables)(nil)
	_ persistence.GuessRepo        = (*fakeGuesses)(nil)
	_ persistence.SeasonRepo       = (*fakeSeasons)(nil)
	_ persistence.ResultsRepo      = (*fakeResults)(nil)
	_ persistence.SnapshotRepo     = (*fakeSnapshots)(nil)
)
