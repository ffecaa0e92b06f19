package server

import "strings"

// maxSuggestions caps autocomplete responses.
const maxSuggestions = 10

// popularArtists backs the artist autocomplete. Static on purpose:
// suggestions must answer in microseconds and never touch an upstream.
var popularArtists = []string{
	"Coldplay", "Taylor Swift", "The Beatles", "BTS", "Ed Sheeran",
	"Beyoncé", "Drake", "Ariana Grande", "The Rolling Stones", "Queen",
	"Adele", "Billie Eilish", "The Weeknd", "Radiohead", "Metallica",
	"Pink Floyd", "Led Zeppelin", "Nirvana", "AC/DC", "U2",
	"Rihanna", "Justin Bieber", "Lady Gaga", "Kanye West", "Eminem",
	"Post Malone", "Harry Styles", "Dua Lipa", "Shakira", "Elton John",
	"David Bowie", "Madonna", "Michael Jackson", "Prince", "Bob Marley",
	"Arctic Monkeys", "Foo Fighters", "Green Day", "Linkin Park", "Muse",
	"Red Hot Chili Peppers", "Imagine Dragons", "Twenty One Pilots", "The Killers", "Maroon 5",
	"Bruno Mars", "Katy Perry", "Miley Cyrus", "Selena Gomez", "Shawn Mendes",
	"Travis Scott", "Cardi B", "Nicki Minaj", "Kendrick Lamar", "Jay-Z",
	"Fleetwood Mac", "The Who", "Black Sabbath", "Iron Maiden", "Guns N' Roses",
	"Pearl Jam", "Soundgarden", "R.E.M.", "The Smiths", "Joy Division",
	"Depeche Mode", "The Cure", "Oasis", "Blur", "Gorillaz",
	"Daft Punk", "Calvin Harris", "David Guetta", "Avicii", "Swedish House Mafia",
	"One Direction", "5 Seconds of Summer", "Jonas Brothers", "NSYNC", "Backstreet Boys",
	"Spice Girls", "Destiny's Child", "TLC", "No Doubt", "Paramore",
	"Evanescence", "Bring Me The Horizon", "My Chemical Romance", "Fall Out Boy", "Panic! At The Disco",
	"John Mayer", "Jack Johnson", "Jason Mraz", "Train", "OneRepublic",
	"Bastille", "Mumford & Sons", "The Lumineers", "Of Monsters and Men",
	"Florence + The Machine", "Lana Del Rey", "Lorde", "Halsey", "Sia",
	"Sam Smith", "John Legend", "Alicia Keys", "Usher", "Chris Brown",
	"The Chainsmokers", "Marshmello", "Zedd", "Tiësto", "Martin Garrix",
	"Bob Dylan", "Neil Young", "Bruce Springsteen", "Tom Petty", "Eagles",
	"Stevie Wonder", "Marvin Gaye", "Aretha Franklin", "Ray Charles", "James Brown",
	"Frank Sinatra", "Elvis Presley", "Chuck Berry", "Little Richard", "Buddy Holly",
}

// popularCountries backs the country autocomplete.
var popularCountries = []string{
	"United States", "United Kingdom", "Canada", "Australia", "Germany",
	"France", "Spain", "Italy", "Netherlands", "Belgium",
	"Switzerland", "Austria", "Sweden", "Norway", "Denmark",
	"Finland", "Poland", "Czech Republic", "Hungary", "Greece",
	"Portugal", "Ireland", "Japan", "South Korea", "China",
	"Singapore", "Thailand", "Malaysia", "Indonesia", "Philippines",
	"Taiwan", "Hong Kong", "India", "Brazil", "Argentina",
	"Chile", "Mexico", "Colombia", "Peru", "New Zealand",
	"South Africa", "Russia", "Turkey", "Israel", "United Arab Emirates",
	"Saudi Arabia", "Egypt",
}

// suggest returns at most maxSuggestions case-insensitive substring
// matches. An empty query matches nothing.
func suggest(pool []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	suggestions := []string{}
	if query == "" {
		return suggestions
	}
	for _, candidate := range pool {
		if strings.Contains(strings.ToLower(candidate), query) {
			suggestions = append(suggestions, candidate)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}
