package downloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"tube-downloader/internal/shared"
)

// TagFile writes title/artist metadata and cover art into a downloaded media
// file. Container formats without a supported tag format are left untouched.
func TagFile(path string, track shared.Track, coverData []byte) error {
	artist, title := splitArtistTitle(track.Title)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return tagMP3(path, artist, title, coverData)
	case ".flac":
		return tagFLAC(path, artist, title, track.Duration, coverData)
	default:
		return nil
	}
}

func tagMP3(path, artist, title string, coverData []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open mp3 for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetTitle(title)
	if artist != "" {
		tag.SetArtist(artist)
	}

	if len(coverData) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    detectImageFormat(coverData),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     coverData,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save mp3 tags: %w", err)
	}
	return nil
}

func tagFLAC(path, artist, title string, durationSec int, coverData []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	// Drop stale comment/picture blocks so tags are written fresh
	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	comment := flacvorbis.New()
	addField(comment, flacvorbis.FIELD_TITLE, title)
	addField(comment, flacvorbis.FIELD_ARTIST, artist)
	if durationSec > 0 {
		addField(comment, "LENGTH", fmt.Sprintf("%d", durationSec))
	}
	vorbisCommentBlock := comment.Marshal()
	f.Meta = append(f.Meta, &vorbisCommentBlock)

	if err := addCoverArt(f, coverData); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save FLAC file with metadata: %w", err)
	}
	return nil
}

// addField adds a field to vorbis comment only if value is not empty
func addField(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value != "" {
		comment.Add(field, value)
	}
}

// addCoverArt embeds cover art as a FLAC picture block
func addCoverArt(f *flac.File, coverData []byte) error {
	if len(coverData) == 0 {
		return nil
	}

	picture, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover,
		"Front Cover",
		coverData,
		detectImageFormat(coverData),
	)
	if err != nil {
		return fmt.Errorf("failed to create picture metadata: %w", err)
	}

	pictureBlock := picture.Marshal()
	f.Meta = append(f.Meta, &pictureBlock)
	return nil
}

// splitArtistTitle pulls an artist out of an "Artist - Title" string. Video
// titles without that shape tag the whole string as the title.
func splitArtistTitle(full string) (artist, title string) {
	parts := strings.SplitN(full, " - ", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "" {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", full
}

// detectImageFormat sniffs the mime type from magic bytes
func detectImageFormat(data []byte) string {
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}
	return "image/jpeg"
}
