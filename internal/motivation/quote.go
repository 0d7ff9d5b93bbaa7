package motivation

import "time"

// Quote 每日名言
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var quotes = []Quote{
	{"We are what we repeatedly do. Excellence, then, is not an act, but a habit.", "Aristotle"},
	{"Small daily improvements over time lead to stunning results.", "Robin Sharma"},
	{"Motivation is what gets you started. Habit is what keeps you going.", "Jim Ryun"},
	{"The secret of your future is hidden in your daily routine.", "Mike Murdock"},
	{"Success is the sum of small efforts repeated day in and day out.", "Robert Collier"},
	{"Your net worth to the world is usually determined by what remains after your bad habits are subtracted from your good ones.", "Benjamin Franklin"},
	{"Chains of habit are too light to be felt until they are too heavy to be broken.", "Warren Buffett"},
	{"Good habits formed at youth make all the difference.", "Aristotle"},
	{"Habits are the compound interest of self-improvement.", "James Clear"},
	{"You'll never change your life until you change something you do daily.", "John C. Maxwell"},
	{"First forget inspiration. Habit is more dependable.", "Octavia Butler"},
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"It's not what we do once in a while that shapes our lives, but what we do consistently.", "Tony Robbins"},
	{"Make each day your masterpiece.", "John Wooden"},
	{"The difference between who you are and who you want to be is what you do.", "Unknown"},
}

// DailyQuote is stable for a calendar day: quotes[dayOfYear % len].
func DailyQuote(now time.Time) Quote {
	return quotes[now.YearDay()%len(quotes)]
}

// Quotes returns a copy of the quote list.
func Quotes() []Quote {
	return append([]Quote(nil), quotes...)
}
