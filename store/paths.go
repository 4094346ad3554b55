package store

import "fmt"

// Path helpers for the documents the tracker works with.

func TournamentPath(code string) string {
	return fmt.Sprintf("tournaments/%s", code)
}

func TournamentConfigPath(code string) string {
	return fmt.Sprintf("tournaments/%s/config", code)
}

func TeamsPath(code string) string {
	return fmt.Sprintf("tournaments/%s/teams", code)
}

func TeamPath(code, teamID string) string {
	return fmt.Sprintf("tournaments/%s/teams/%s", code, teamID)
}

func MatchesPath(code string) string {
	return fmt.Sprintf("tournaments/%s/matches", code)
}

func MatchPath(code, matchID string) string {
	return fmt.Sprintf("tournaments/%s/matches/%s", code, matchID)
}

func UserPath(uid string) string {
	return fmt.Sprintf("users/%s", uid)
}

func UserProfilePath(uid string) string {
	return fmt.Sprintf("users/%s/profile", uid)
}

// UserTournamentsPath indexes a user's tournaments by kind:
// "created", "joined" or "spectating".
func UserTournamentsPath(uid, kind string) string {
	return fmt.Sprintf("users/%s/tournaments/%s", uid, kind)
}

func UserTournamentRefPath(uid, kind, code string) string {
	return fmt.Sprintf("users/%s/tournaments/%s/%s", uid, kind, code)
}

func PlayersPath(uid string) string {
	return fmt.Sprintf("users/%s/players", uid)
}

func PlayerPath(uid, playerID string) string {
	return fmt.Sprintf("users/%s/players/%s", uid, playerID)
}

func PersonalTeamsPath(uid, sport string) string {
	return fmt.Sprintf("users/%s/teams/%s", uid, sport)
}

func ProgressPath(uid, sport, playerID string) string {
	return fmt.Sprintf("users/%s/progress/%s/%s", uid, sport, playerID)
}

// EmailIndexPath maps a lookup key for an email address to a user id.
func EmailIndexPath(emailKey string) string {
	return fmt.Sprintf("emailIndex/%s", emailKey)
}
