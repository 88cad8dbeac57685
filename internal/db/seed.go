package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedUser is the minimal shape seeding needs to create an account.
type SeedUser struct {
	Username string
	Email    string
	Password string
	Gender   string
}

// Truncate removes all rows in dependency order and resets sequences where the dialect allows it.
func Truncate(db *gorm.DB) error {
	for _, table := range []string{"transactions", "messages", "matches", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		switch db.Dialector.Name() {
		case "mysql":
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		case "sqlite":
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		case "postgres":
			if table != "likes" {
				db.Exec("ALTER SEQUENCE " + table + "_id_seq RESTART WITH 1")
			}
		}
	}
	return nil
}

// CreateUsers inserts users with bcrypt-hashed passwords and a zero coin balance.
// Coins are granted through the ledger afterwards so that balance and ledger agree.
func CreateUsers(db *gorm.DB, seeds []SeedUser) ([]User, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	users := make([]User, 0, len(seeds))
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u := User{
			Username:     s.Username,
			Email:        s.Email,
			PasswordHash: string(hash),
			Gender:       s.Gender,
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&u).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", s.Username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// DemoUsers returns n users alternating male/female, all with password "password".
func DemoUsers(n int) []SeedUser {
	out := make([]SeedUser, 0, n)
	for i := 1; i <= n; i++ {
		gender := "male"
		if i > n/2 {
			gender = "female"
		}
		out = append(out, SeedUser{
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "password",
			Gender:   gender,
		})
	}
	return out
}

// SeedLikes creates random opposite-gender like/dislike edges (~70% likes) among users.
// Every third edge is made reciprocal. Matches are NOT created here; callers
// replay mutual pairs through the match engine so that match formation stays in one place.
// Returns the mutual pairs that were produced.
func SeedLikes(db *gorm.DB, users []User, log *slog.Logger) ([][2]uint64, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	byID := make(map[uint64]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	insert := func(liker, liked uint64, isLike bool) (bool, error) {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Like{LikerID: liker, LikedID: liked, IsLike: isLike})
		return res.RowsAffected > 0, res.Error
	}

	var mutual [][2]uint64
	counter := 0
	for _, actor := range users {
		for j := 0; j < 12; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == byID[actor.ID].Gender {
				continue
			}

			liked := r.Intn(100) < 70
			if counter%3 == 0 {
				liked = true
				back, err := insert(target.ID, actor.ID, true)
				if err != nil {
					return nil, fmt.Errorf("failed to seed like: %w", err)
				}
				created, err := insert(actor.ID, target.ID, true)
				if err != nil {
					return nil, fmt.Errorf("failed to seed like: %w", err)
				}
				if back || created {
					mutual = append(mutual, [2]uint64{actor.ID, target.ID})
				}
				counter++
				continue
			}

			if _, err := insert(actor.ID, target.ID, liked); err != nil {
				return nil, fmt.Errorf("failed to seed like: %w", err)
			}
			counter++
		}
	}
	log.Info("seeded likes", "edges", counter, "mutual_candidates", len(mutual))
	return mutual, nil
}
