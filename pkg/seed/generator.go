// Package seed generates deterministic test data for the seeded partition.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/google/uuid"
)

type Address struct {
	StreetAddress string
	ZipCode       string
	City          string
	Country       string
}

type Friend struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Birthday  *time.Time
	Address   *Address
}

type Pet struct {
	ID       string
	FriendID string
	Name     string
	Kind     string
	Mood     string
}

type Quote struct {
	ID        string
	Quote     string
	Author    string
	FriendIDs []string
}

// Batch is one generated data set. Every row belongs to the seeded partition.
type Batch struct {
	Friends []Friend
	Pets    []Pet
	Quotes  []Quote
}

func (b Batch) Result() models.SeedResult {
	result := models.SeedResult{
		Friends: len(b.Friends),
		Pets:    len(b.Pets),
		Quotes:  len(b.Quotes),
	}
	for _, friend := range b.Friends {
		if friend.Address != nil {
			result.Addresses++
		}
	}
	return result
}

// Generator is deterministic for a given profile and seed.
type Generator struct {
	profile Profile
	rng     *rand.Rand
}

func NewGenerator(profile Profile, seed int64) *Generator {
	return &Generator{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) Generate(count int) Batch {
	if count <= 0 {
		return Batch{}
	}

	batch := Batch{
		Friends: make([]Friend, 0, count),
	}

	pool := g.quotePool(count)
	links := make(map[int][]string, len(pool))

	for i := 0; i < count; i++ {
		friend := g.friend(i)
		batch.Friends = append(batch.Friends, friend)

		for p := g.rng.Intn(g.profile.MaxPetsPerFriend + 1); p > 0; p-- {
			batch.Pets = append(batch.Pets, g.pet(friend.ID))
		}

		n := min(g.rng.Intn(g.profile.MaxQuotesPerFriend+1), len(pool))
		for _, idx := range g.rng.Perm(len(pool))[:n] {
			links[idx] = append(links[idx], friend.ID)
		}
	}

	for i, quote := range pool {
		quote.FriendIDs = links[i]
		batch.Quotes = append(batch.Quotes, quote)
	}

	return batch
}

// quotePool picks roughly one quote per two friends from the profile.
func (g *Generator) quotePool(count int) []Quote {
	size := min(max(count/2, 1), len(g.profile.Quotes))
	pool := make([]Quote, 0, size)
	for _, idx := range g.rng.Perm(len(g.profile.Quotes))[:size] {
		template := g.profile.Quotes[idx]
		pool = append(pool, Quote{
			ID:     g.uuid(),
			Quote:  template.Quote,
			Author: template.Author,
		})
	}
	return pool
}

func (g *Generator) friend(n int) Friend {
	first := pick(g.rng, g.profile.FirstNames)
	last := pick(g.rng, g.profile.LastNames)

	friend := Friend{
		ID:        g.uuid(),
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), n, pick(g.rng, g.profile.EmailDomains)),
	}

	if g.rng.Intn(4) > 0 {
		birthday := time.Date(1950+g.rng.Intn(55), time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
		friend.Birthday = &birthday
	}

	if g.rng.Float64() < g.profile.AddressProbability {
		country := g.profile.Countries[g.rng.Intn(len(g.profile.Countries))]
		friend.Address = &Address{
			StreetAddress: fmt.Sprintf("%s %d", pick(g.rng, g.profile.Streets), 1+g.rng.Intn(150)),
			ZipCode:       fmt.Sprintf("%05d", 10000+g.rng.Intn(89999)),
			City:          pick(g.rng, country.Cities),
			Country:       country.Name,
		}
	}

	return friend
}

func (g *Generator) pet(friendID string) Pet {
	return Pet{
		ID:       g.uuid(),
		FriendID: friendID,
		Name:     pick(g.rng, g.profile.PetNames),
		Kind:     pick(g.rng, models.PetKinds),
		Mood:     pick(g.rng, models.PetMoods),
	}
}

// uuid draws a v4 id from the seeded source so ids repeat across runs.
func (g *Generator) uuid() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// *rand.Rand never fails to read
		panic(err)
	}
	return id.String()
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
