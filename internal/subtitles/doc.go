// Package subtitles loads dialogue tracks and answers overlap queries
// against them.
//
// Two on-disk formats are supported: Advanced SubStation Alpha (.ass/.ssa),
// whose [Events] section is read according to its Format line, and SubRip
// (.srt). Both produce a Track whose events feed an Index.
package subtitles
