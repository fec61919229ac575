package search

import (
	"strconv"

	"github.com/newsgraph-io/newsgraph/internal/store"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

const schemaNS = "http://schema.org/"

// subStatements groups the one-level expansion rows by their subject node.
type subStatements map[string][][2]string

func groupSubStatements(rows []store.Binding) subStatements {
	subs := make(subStatements)
	for _, row := range rows {
		if !row.Has("subP") {
			continue
		}
		node := row.Get("o")
		subs[node] = append(subs[node], [2]string{row.Get("subP"), row.Get("subO")})
	}
	return subs
}

// assembleArticle replays the predicate-to-field mapping in reverse,
// turning flat ?p ?o ?subP ?subO rows back into the nested record shape.
// Repeated predicates (author, image, keywords) group into lists.
func assembleArticle(url string, rows []store.Binding) *types.Article {
	article := types.NewArticle(url)
	subs := groupSubStatements(rows)
	seen := make(map[string]bool)

	for _, row := range rows {
		predicate := row.Get("p")
		object := row.Get("o")

		switch predicate {
		case schemaNS + "@type":
			article.Type = object
		case schemaNS + "headline":
			article.Headline = object
		case schemaNS + "abstract":
			article.Abstract = object
		case schemaNS + "articleBody":
			article.ArticleBody = object
		case schemaNS + "articleSection":
			article.ArticleSection = object
		case schemaNS + "wordCount":
			if n, err := strconv.Atoi(object); err == nil {
				article.WordCount = n
			}
		case schemaNS + "inLanguage":
			article.InLanguage = object
		case schemaNS + "keywords":
			article.Keywords = append(article.Keywords, object)
		case schemaNS + "dateCreated":
			article.DateCreated = object
		case schemaNS + "datePublished":
			article.DatePublished = object
		case schemaNS + "dateModified":
			article.DateModified = object
		case schemaNS + "thumbnailUrl":
			article.ThumbnailURL = object
		case schemaNS + "url":
			article.URL = object
		case schemaNS + "author":
			if entity, ok := assembleEntity(object, subs); ok && !seen["author|"+object] {
				seen["author|"+object] = true
				article.Author = append(article.Author, entity)
			}
		case schemaNS + "publisher":
			if entity, ok := assembleEntity(object, subs); ok && !seen["publisher|"+object] {
				seen["publisher|"+object] = true
				article.Publisher = append(article.Publisher, entity)
			}
		case schemaNS + "editor":
			if entity, ok := assembleEntity(object, subs); ok && !seen["editor|"+object] {
				seen["editor|"+object] = true
				article.Editor = append(article.Editor, entity)
			}
		case schemaNS + "image":
			if !seen["image|"+object] {
				seen["image|"+object] = true
				article.Image = append(article.Image, assembleImage(object, subs))
			}
		case schemaNS + "thumbnail":
			if !seen["thumbnail|"+object] {
				seen["thumbnail|"+object] = true
				img := assembleImage(object, subs)
				article.Thumbnail = &img
			}
		case schemaNS + "audio":
			if !seen["audio|"+object] {
				seen["audio|"+object] = true
				article.Audio = append(article.Audio, assembleAudio(object, subs))
			}
		case schemaNS + "video":
			if !seen["video|"+object] {
				seen["video|"+object] = true
				article.Video = append(article.Video, assembleVideo(object, subs))
			}
		}
	}

	return article
}

// assembleEntity rebuilds an author/publisher/editor record from its node's
// expanded statements. Nodes without a type discriminant are skipped; a
// bare-literal entity link has no expansion and is skipped the same way.
func assembleEntity(node string, subs subStatements) (types.EntityRecord, bool) {
	pairs, ok := subs[node]
	if !ok {
		return types.EntityRecord{}, false
	}

	var record types.EntityRecord
	for _, pair := range pairs {
		value := pair[1]
		switch pair[0] {
		case schemaNS + "@type":
			record.Type = value
		case schemaNS + "name":
			record.Name = value
		case schemaNS + "address":
			record.Address = value
		case schemaNS + "affiliation":
			record.Affiliation = value
		case schemaNS + "birthDate":
			record.BirthDate = value
		case schemaNS + "birthPlace":
			record.BirthPlace = value
		case schemaNS + "deathDate":
			record.DeathDate = value
		case schemaNS + "deathPlace":
			record.DeathPlace = value
		case schemaNS + "email":
			record.Email = value
		case schemaNS + "familyName":
			record.FamilyName = value
		case schemaNS + "gender":
			record.Gender = value
		case schemaNS + "givenName":
			record.GivenName = value
		case schemaNS + "jobTitle":
			record.JobTitle = value
		case schemaNS + "nationality":
			record.Nationality = value
		case schemaNS + "publishingPrinciples":
			record.PublishingPrinciples = value
		}
	}

	if record.Type == "" {
		return types.EntityRecord{}, false
	}
	return record, true
}

func assembleMediaBase(node string, subs subStatements) types.MediaObject {
	media := types.MediaObject{NodeURI: node}
	for _, pair := range subs[node] {
		value := pair[1]
		switch pair[0] {
		case schemaNS + "contentUrl":
			media.ContentURL = value
		case schemaNS + "duration":
			media.Duration = value
		case schemaNS + "embedUrl":
			media.EmbedURL = value
		case schemaNS + "height":
			media.Height = atoi(value)
		case schemaNS + "width":
			media.Width = atoi(value)
		case schemaNS + "uploadDate":
			media.UploadDate = value
		}
	}
	return media
}

func assembleImage(node string, subs subStatements) types.ImageObject {
	image := types.ImageObject{MediaObject: assembleMediaBase(node, subs)}
	for _, pair := range subs[node] {
		value := pair[1]
		switch pair[0] {
		case schemaNS + "@type":
			image.Type = value
		case schemaNS + "url":
			image.URL = value
		case schemaNS + "caption":
			image.Caption = value
		case schemaNS + "embeddedTextCaption":
			image.EmbeddedTextCaption = value
		}
	}
	if image.URL == "" && graphNodeIsURL(node) {
		image.URL = node
	}
	return image
}

func assembleAudio(node string, subs subStatements) types.AudioObject {
	audio := types.AudioObject{MediaObject: assembleMediaBase(node, subs)}
	for _, pair := range subs[node] {
		value := pair[1]
		switch pair[0] {
		case schemaNS + "@type":
			audio.Type = value
		case schemaNS + "caption":
			audio.Caption = value
		case schemaNS + "transcript":
			audio.Transcript = value
		}
	}
	return audio
}

func assembleVideo(node string, subs subStatements) types.VideoObject {
	video := types.VideoObject{MediaObject: assembleMediaBase(node, subs)}
	for _, pair := range subs[node] {
		value := pair[1]
		switch pair[0] {
		case schemaNS + "@type":
			video.Type = value
		case schemaNS + "caption":
			video.Caption = value
		case schemaNS + "director":
			video.Director = value
		case schemaNS + "transcript":
			video.Transcript = value
		case schemaNS + "videoFrameSize":
			video.VideoFrameSize = value
		case schemaNS + "videoQuality":
			video.VideoQuality = value
		}
	}
	return video
}

// assembleHits maps flat search rows to the hit shape, echoing the
// searched keywords into each hit.
func assembleHits(rows []store.Binding, keywords []string) []types.SearchHit {
	hits := make([]types.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, types.SearchHit{
			URL:           row.Get("article"),
			Headline:      row.Get("headline"),
			Abstract:      row.Get("abstract"),
			Author:        row.Get("author"),
			Publisher:     row.Get("publisher"),
			DatePublished: row.Get("datePublished"),
			ThumbnailURL:  row.Get("thumbnailUrl"),
			Keywords:      keywords,
		})
	}
	return hits
}

func atoi(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func graphNodeIsURL(node string) bool {
	return len(node) > 7 && (node[:7] == "http://" || node[:8] == "https://")
}
