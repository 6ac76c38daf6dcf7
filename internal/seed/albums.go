// Package seed holds the catalog written to a fresh album table.
package seed

import "github.com/astro-web3/album-api/internal/domain/album"

// Albums returns a fresh copy of the seed catalog. Seeded albums carry no
// owner, so they can be read by anyone and updated by no one.
func Albums() []*album.Album {
	return []*album.Album{
		{
			ID:          1000,
			Artist:      "The Joy Formidable",
			Title:       "The Big Roar",
			Genres:      []string{"Alt rock", "Indie rock", "Shoegaze"},
			ReleaseDate: "24-01-2011",
			Review:      "The Welsh band with Britpop-sized ambition offers its long-awaited full-length and it includes re-worked tracks from last year's mini album.",
		},
		{
			ID:          1001,
			Artist:      "My Chemical Romance",
			Title:       "Three Cheers for Sweet Revenge",
			Genres:      []string{"Emo", "Alt rock", "Pop-punk", "Post-hardcore", "Punk rock"},
			ReleaseDate: "08-06-2004",
			Review:      "Each Sunday, Pitchfork takes an in-depth look at a significant album from the past, and any record not in our archives is eligible. Today, we revisit My Chemical Romance's second album, an operatic pop-rock behemoth that became an icon for outcasts.",
		},
		{
			ID:          1002,
			Artist:      "my bloody valentine",
			Title:       "loveless",
			Genres:      []string{"Shoegaze", "Noise pop", "Dream pop", "Noise rock"},
			ReleaseDate: "04-11-1991",
			Review:      "My Bloody Valentine's output during the band's miracle years between 1988 and 1991 still feels like a gift.",
		},
		{
			ID:          1003,
			Artist:      "Wolf Alice",
			Title:       "My Love Is Cool",
			Genres:      []string{"Alt rock", "Dream pop", "Shoegaze"},
			ReleaseDate: "22-06-2015",
			Review:      "Wolf Alice have gained attention for their powerful live show and four EPs. Their debut is a tentative coming-of-age story, as guitarist/singer Ellie Rowsell refuses to settle for a single identity.",
		},
		{
			ID:          1004,
			Artist:      "Wolf Alice",
			Title:       "Visions of a Life",
			Genres:      []string{"Alt rock", "Noise rock"},
			ReleaseDate: "29-09-2017",
			Review:      "Wolf Alice proudly carry the banner for Britrock on their second album, a holy site where dead metaphors and teen clichés can spring magically back to life.",
		},
		{
			ID:          1005,
			Artist:      "Wolf Alice",
			Title:       "Blue Weekend",
			Genres:      []string{"Alt rock", "Rock", "Indie pop", "Shoegaze"},
			ReleaseDate: "04-06-2021",
			Review:      "The UK band's enormous third album is pristine and emotionally extravagant, the platonic ideal for contemporary big-tent rock music.",
		},
		{
			ID:          1006,
			Artist:      "underscores",
			Title:       "Wallsocket",
			Genres:      []string{"Pop", "Rock", "Folk"},
			ReleaseDate: "22-09-2023",
			Review:      "For the most part, 'Wallsocket' is the sound of an artist operating entirely, brilliantly on their own terms.",
		},
		{
			ID:          1007,
			Artist:      "Nine Inch Nails",
			Title:       "Pretty Hate Machine",
			Genres:      []string{"Industrial rock", "Electro-industrial", "Synth-pop"},
			ReleaseDate: "20-10-1989",
			Review:      "The landmark debut by Trent Reznor's band is reissued, with new mastering overseen by Reznor and longtime engineer Tom Baker and an additional B-side.",
		},
		{
			ID:          1008,
			Artist:      "Nine Inch Nails",
			Title:       "The Downward Spiral",
			Genres:      []string{"Industrial rock", "Alt rock", "Industrial metal"},
			ReleaseDate: "08-03-1994",
			Review:      "The Downward Spiral serves as a reminder that music can often be the purest form of human expression.",
		},
		{
			ID:          1009,
			Artist:      "IDLES",
			Title:       "Joy as an Act of Resistance",
			Genres:      []string{"Punk rock", "Post-punk", "Post-hardcore"},
			ReleaseDate: "31-08-2018",
			Review:      "The riffs come hard, fuzzy, and fast on the Bristol punks' deeply passionate second album—and the platitudes follow close behind.",
		},
		{
			ID:          1010,
			Artist:      "Jane Remover",
			Title:       "Frailty",
			Genres:      []string{"Digicore", "Hyperpop", "Emo", "EDM"},
			ReleaseDate: "12-11-2021",
			Review:      "The official debut from the young digicore producer and songwriter is riveting, a shapeshifting emo-electronic record that sounds like new worlds seeping out of a digital abyss.",
		},
		{
			ID:          1011,
			Artist:      "Jane Remover",
			Title:       "Census Designated",
			Genres:      []string{"Shoegaze", "Pop", "Noise rock"},
			ReleaseDate: "20-10-2023",
			Review:      "The singer-producer explodes her sound with a feverish blend of shoegaze and bedroom pop.",
		},
	}
}
