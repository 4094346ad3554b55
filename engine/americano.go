package engine

import (
	"fmt"

	"github.com/matchday/tournament-tracker/models"
)

// AmericanoParams describes one full Americano schedule request. Entrants
// are individual players; each encounter is a complete partner-rotation
// cycle through the roster.
type AmericanoParams struct {
	Players     []Entrant
	Encounters  int
	PointsToWin int
	Now         int64
}

// AmericanoGenerator produces doubles fixtures where partnerships rotate so
// every player partners as many distinct players as the roster allows.
type AmericanoGenerator struct{}

func NewAmericanoGenerator() *AmericanoGenerator {
	return &AmericanoGenerator{}
}

// Generate builds the full schedule. Players are ordered by name so the
// rotation is reproducible for a given roster. Rosters with n % 4 == 2
// (6, 10, 14, ...) cannot fill courts after an even split, so they use an
// extended plan with two resting players per round; every other size uses
// the circle method.
func (g *AmericanoGenerator) Generate(p AmericanoParams) ([]models.Match, error) {
	if len(p.Players) < 4 {
		return nil, fmt.Errorf("americano needs at least 4 players, got %d", len(p.Players))
	}
	players := sortByName(p.Players)
	encounters := p.Encounters
	if encounters < 1 {
		encounters = 1
	}
	target := p.PointsToWin
	if target <= 0 {
		target = models.DefaultPointsToWin
	}
	if len(players)%4 == 2 {
		return g.generateTwoRests(players, encounters, target, p.Now), nil
	}
	return g.generateCircle(players, encounters, target, p.Now), nil
}

// generateCircle runs the circle method: the first player stays fixed and
// the rest rotate one seat per round. Odd rosters rest one rotating player
// per round; that rest is recorded as a bye fixture. Within each round,
// courts of four are filled greedily preferring partnerships not yet used
// in the current encounter.
func (g *AmericanoGenerator) generateCircle(players []Entrant, encounters, target int, now int64) []models.Match {
	n := len(players)
	roundsPerEncounter := n - 1
	if n%2 == 1 {
		roundsPerEncounter = n
	}

	var out []models.Match
	for cycle := 1; cycle <= encounters; cycle++ {
		order := append([]Entrant(nil), players...)
		usedPairs := map[string]bool{}
		for r := 0; r < roundsPerEncounter; r++ {
			roundNum := r + 1 + (cycle-1)*roundsPerEncounter
			available := append([]Entrant(nil), order...)
			var byePlayer *Entrant
			if n%2 == 1 {
				bp := available[r%n]
				byePlayer = &bp
				available = removePlayers(available, bp.ID)
			}

			for _, c := range pairCourts(available, usedPairs) {
				out = append(out, courtMatch(c[0], c[1], c[2], c[3], cycle, roundNum, target, now))
			}

			if byePlayer != nil {
				out = append(out, restBye(*byePlayer, cycle, roundNum, now))
			}
			order = rotateTail(order)
		}
	}
	return out
}

// generateTwoRests handles n % 4 == 2 rosters: n+2 rounds per encounter,
// each with exactly one court and two resting players. Every player gets the
// same rest quota up to rounding; the surplus rests go to the players first
// in name order. Rest pairs and court pairings are chosen by score so new
// partnerships come first, then fewer repeats, then spending the larger
// remaining rest budgets.
func (g *AmericanoGenerator) generateTwoRests(players []Entrant, encounters, target int, now int64) []models.Match {
	n := len(players)
	roundsPerEncounter := n + 2
	totalRestSlots := roundsPerEncounter * 2
	baseRest := totalRestSlots / n
	remainder := totalRestSlots - baseRest*n
	restQuota := map[string]int{}
	for _, p := range players {
		restQuota[p.ID] = baseRest
		if remainder > 0 {
			restQuota[p.ID]++
			remainder--
		}
	}

	var out []models.Match
	for cycle := 1; cycle <= encounters; cycle++ {
		usedPairs := map[string]bool{}
		unusedPairs := map[string]bool{}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				unusedPairs[PairKey(players[i].ID, players[j].ID)] = true
			}
		}
		restRemaining := map[string]int{}
		for id, q := range restQuota {
			restRemaining[id] = q
		}

		for r := 0; r < roundsPerEncounter; r++ {
			roundNum := r + 1 + (cycle-1)*roundsPerEncounter
			restA, restB, pairing, found := bestRound(players, usedPairs, unusedPairs, restRemaining)
			if !found {
				continue
			}
			restRemaining[restA.ID]--
			restRemaining[restB.ID]--
			if pairing != nil {
				pk1 := PairKey(pairing[0].ID, pairing[1].ID)
				pk2 := PairKey(pairing[2].ID, pairing[3].ID)
				usedPairs[pk1] = true
				usedPairs[pk2] = true
				delete(unusedPairs, pk1)
				delete(unusedPairs, pk2)
				out = append(out, courtMatch(pairing[0], pairing[1], pairing[2], pairing[3], cycle, roundNum, target, now))
			}
			out = append(out, restBye(restA, cycle, roundNum, now))
			out = append(out, restBye(restB, cycle, roundNum, now))
		}
	}
	return out
}

// bestRound scans every rest pair with quota left and every court pairing of
// the remaining players, keeping the lowest-scoring candidate. Scoring
// rewards new partnerships 10× more than it penalises repeats, with the
// remaining rest budget of the resting pair as a tie spender. Earlier
// candidates win ties, so the scan order over name-sorted players is part of
// the schedule.
func bestRound(players []Entrant, usedPairs, unusedPairs map[string]bool, restRemaining map[string]int) (restA, restB Entrant, pairing []Entrant, found bool) {
	var restCandidates []Entrant
	for _, p := range players {
		if restRemaining[p.ID] > 0 {
			restCandidates = append(restCandidates, p)
		}
	}

	bestScore := 0
	for i := 0; i < len(restCandidates); i++ {
		for j := i + 1; j < len(restCandidates); j++ {
			ra, rb := restCandidates[i], restCandidates[j]
			active := removePlayers(append([]Entrant(nil), players...), ra.ID, rb.ID)
			if len(active) < 4 {
				continue
			}
			forEachQuartet(active, func(four [4]Entrant) {
				for _, pr := range courtPairings(four) {
					k1 := PairKey(pr[0].ID, pr[1].ID)
					k2 := PairKey(pr[2].ID, pr[3].ID)
					newCount := boolCount(unusedPairs[k1]) + boolCount(unusedPairs[k2])
					repeats := boolCount(usedPairs[k1]) + boolCount(usedPairs[k2])
					balance := (restRemaining[ra.ID] - 1) + (restRemaining[rb.ID] - 1)
					score := -(newCount * 100) + repeats*10 - balance
					if !found || score < bestScore {
						restA, restB, pairing, bestScore, found = ra, rb, pr, score, true
					}
				}
			})
		}
	}
	if !found && len(restCandidates) >= 2 {
		// No court can be formed; rest two players anyway so quotas drain.
		return restCandidates[0], restCandidates[1], nil, true
	}
	return restA, restB, pairing, found
}

// pairCourts fills courts of four from available, each court two partners
// versus two partners. Fresh partnerships are preferred and recorded in
// usedPairs; when none remain the first four players pair up sequentially,
// and that forced repeat stays out of the partnership memory.
func pairCourts(available []Entrant, usedPairs map[string]bool) [][4]Entrant {
	var courts [][4]Entrant
	for len(available) >= 4 {
		a1, a2, b1, b2, found := findFreshQuartet(available, usedPairs)
		if found {
			usedPairs[PairKey(a1.ID, a2.ID)] = true
			usedPairs[PairKey(b1.ID, b2.ID)] = true
		} else {
			a1, a2, b1, b2 = available[0], available[1], available[2], available[3]
		}
		courts = append(courts, [4]Entrant{a1, a2, b1, b2})
		available = removePlayers(available, a1.ID, a2.ID, b1.ID, b2.ID)
	}
	return courts
}

// findFreshQuartet looks for two players to partner and two to oppose such
// that neither partnership has been used this encounter.
func findFreshQuartet(available []Entrant, usedPairs map[string]bool) (a1, a2, b1, b2 Entrant, found bool) {
	for i := 0; i < len(available); i++ {
		for j := i + 1; j < len(available); j++ {
			for k := 0; k < len(available); k++ {
				if k == i || k == j {
					continue
				}
				for l := k + 1; l < len(available); l++ {
					if l == i || l == j {
						continue
					}
					p1 := PairKey(available[i].ID, available[j].ID)
					p2 := PairKey(available[k].ID, available[l].ID)
					if !usedPairs[p1] && !usedPairs[p2] {
						return available[i], available[j], available[k], available[l], true
					}
				}
			}
		}
	}
	return a1, a2, b1, b2, false
}

// forEachQuartet visits every 4-combination of players in index order.
func forEachQuartet(players []Entrant, fn func([4]Entrant)) {
	n := len(players)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					fn([4]Entrant{players[a], players[b], players[c], players[d]})
				}
			}
		}
	}
}

// courtPairings lists the three perfect matchings of four players, each as
// [partnerA1, partnerA2, partnerB1, partnerB2].
func courtPairings(four [4]Entrant) [][]Entrant {
	return [][]Entrant{
		{four[0], four[1], four[2], four[3]},
		{four[0], four[2], four[1], four[3]},
		{four[0], four[3], four[1], four[2]},
	}
}

func courtMatch(a1, a2, b1, b2 Entrant, cycle, roundNum, target int, now int64) models.Match {
	return models.Match{
		TeamA:       a1.Name + " / " + a2.Name,
		TeamB:       b1.Name + " / " + b2.Name,
		APlayers:    []string{a1.ID, a2.ID},
		BPlayers:    []string{b1.ID, b2.ID},
		Stage:       models.StageAmericano,
		Round:       fmt.Sprintf("Round %d", roundNum),
		Encounter:   cycle,
		PointsToWin: target,
		CreatedAt:   now,
	}
}

func restBye(p Entrant, cycle, roundNum int, now int64) models.Match {
	return models.Match{
		Bye:        true,
		Stage:      models.StageAmericano,
		Round:      fmt.Sprintf("Round %d", roundNum),
		Encounter:  cycle,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		CreatedAt:  now,
	}
}

func removePlayers(players []Entrant, ids ...string) []Entrant {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := players[:0:0]
	for _, p := range players {
		if !drop[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// rotateTail keeps the first player fixed and rotates the rest one seat.
func rotateTail(players []Entrant) []Entrant {
	if len(players) < 3 {
		return players
	}
	out := make([]Entrant, 0, len(players))
	out = append(out, players[0], players[len(players)-1])
	out = append(out, players[1:len(players)-1]...)
	return out
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
