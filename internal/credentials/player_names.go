// Package credentials generates display names for anonymous players.
package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating movie-flavored display names
var adjectives = []string{
	"Curious", "Restless", "Brooding", "Quiet", "Midnight", "Patient",
	"Vanishing", "Electric", "Golden", "Scarlet", "Wandering", "Fearless",
	"Dreaming", "Hidden", "Lonesome", "Radiant", "Stormy", "Tenacious",
	"Velvet", "Wistful", "Daring", "Gentle", "Luminous", "Rogue",
}

var directors = []string{
	"Kubrick", "Hitchcock", "Kurosawa", "Varda", "Fellini", "Bergman",
	"Melies", "Wilder", "Tarkovsky", "Campion", "Lynch", "Ozu",
	"Pakula", "Rohmer", "Scorsese", "Akerman", "Leone", "Bresson",
	"Cassavetes", "Denis", "Herzog", "Lumet", "Powell", "Sturges",
}

// GeneratePlayerName returns a random "Adjective Director" display name
func GeneratePlayerName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	director, err := randomElement(directors)
	if err != nil {
		return "", err
	}

	return adjective + " " + director, nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
