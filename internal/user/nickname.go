package user

import (
	"fmt"
	"math/rand"
)

var nickAdjectives = []string{
	"Brave", "Calm", "Clever", "Crimson", "Daring", "Fierce", "Gentle",
	"Golden", "Hidden", "Jolly", "Lucky", "Mighty", "Nimble", "Quick",
	"Quiet", "Rapid", "Shadow", "Silent", "Silver", "Swift", "Wild",
}

var nickAnimals = []string{
	"Badger", "Bison", "Falcon", "Ferret", "Fox", "Hawk", "Heron",
	"Lynx", "Marten", "Otter", "Owl", "Panther", "Raven", "Salmon",
	"Stork", "Tiger", "Viper", "Weasel", "Wolf", "Wren",
}

// GenerateNickname returns a random guest nickname such as "SwiftOtter42".
func GenerateNickname() string {
	adjective := nickAdjectives[rand.Intn(len(nickAdjectives))]
	animal := nickAnimals[rand.Intn(len(nickAnimals))]
	return fmt.Sprintf("%s%s%d", adjective, animal, rand.Intn(100))
}
