// Package discord connects the bot to Discord.
//
// It provides two pieces:
//   - Bot: a discordgo session wrapper that implements leaderboard.Messenger
//     (resolve the channel, delete the stale leaderboard, post the new embed)
//     and reports readiness for the ops server.
//   - CommandHandler: listens for the refresh command in guild text channels,
//     checks the author holds the Administrator permission and runs a publish
//     cycle, replying with the result.
//
// Credentials: the session logs in with a bot token and needs the Guilds,
// GuildMessages and MessageContent intents; the last one is privileged and
// must be enabled for the application in the developer portal.
package discord
