package main

// ArticleMetadata holds the Open Graph preview data scraped from an article page
type ArticleMetadata struct {
	URL      string
	ImageURL string
	Title    string
}

// FontColor is the CSS color name used for the story card caption
type FontColor string

const (
	FontColorSnow  FontColor = "snow"  // light text for dark images
	FontColorBlack FontColor = "black" // dark text for light images
)

// StoryCard is everything the renderer needs to produce one story image
type StoryCard struct {
	ImageURL   string
	Caption    string
	FontColor  FontColor
	OutputPath string
}
