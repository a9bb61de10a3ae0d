// Package names generates "adjective-noun" device names such as
// "patient-spindle" for anxietyd instances started without --name.
//
// The device name appears in log lines, the stats endpoint and the
// anxietyctl table header, so it only has to be readable and unlikely to
// collide between daemons on one host.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Temperament words, a nod to the scheduler's name.
var adjectives = []string{
	"anxious", "calm", "eager", "edgy", "fidgety", "frantic", "hasty",
	"impatient", "jittery", "keen", "nervous", "patient", "placid",
	"restless", "serene", "skittish", "steady", "tense", "twitchy",
	"uneasy", "watchful", "weary", "wired", "zealous",
	"brisk", "drowsy", "nimble", "prompt", "sluggish", "swift",
}

// Storage hardware and block-layer vocabulary.
var nouns = []string{
	"actuator", "arm", "bio", "block", "cylinder", "disk", "elevator",
	"extent", "head", "inode", "journal", "lun", "platter", "plug",
	"queue", "raid", "sector", "spindle", "stripe", "tag", "track",
	"volume", "wal", "zone", "flash", "cache", "nvme", "tape", "drum",
	"barrier",
}

// Generate returns a random "adjective-noun" name.
func Generate() string {
	return fmt.Sprintf("%s-%s",
		adjectives[randomIndex(len(adjectives))],
		nouns[randomIndex(len(nouns))])
}

func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
