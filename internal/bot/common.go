package bot

// maxMediaSize is the largest attachment re-uploaded by the Discord
// transport (20MB). Telegram re-sends by file_id and has no such limit
// here.
const maxMediaSize = 20 * 1024 * 1024

const greeting = `Hi! I collect your media files and send them back in viewing order.

/ssequence - start collecting files
/esequence - deliver them sorted by quality and episode
/help - all commands`

const helpText = `Commands:

/ssequence - start a new sequence session
/esequence - sort and deliver the collected files
/cancel - discard the current session
/status - files collected so far
/stats - your lifetime delivery statistics
/help - this message

While a session is open, send me documents, videos, or audio files. On /esequence I return them grouped by quality (480p...4K) and ordered by episode number.`

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
