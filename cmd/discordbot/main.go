/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

var (
	botPubKey  ed25519.PublicKey
	botAppId   string
	snapBucket string
	client     *discordgo.Session
)

type TopLevelCommand string

const (
	TabCmd TopLevelCommand = "tab"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	TabCmd: tabCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interaction type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))

	// .env is optional; deployed instances set real environment variables
	_ = godotenv.Load()

	pubKeyBytes, err := hex.DecodeString(os.Getenv("DISCORD_PUBLIC_KEY"))
	if err != nil || len(pubKeyBytes) == 0 {
		log.Fatalf("discordbot.init: failed to parse DISCORD_PUBLIC_KEY: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	botAppId = os.Getenv("DISCORD_APP_ID")
	if botAppId == "" {
		log.Fatalf("discordbot.init: DISCORD_APP_ID not set")
	}

	snapBucket = os.Getenv("SWISSTD_S3_BUCKET")
	if snapBucket == "" {
		log.Fatalf("discordbot.init: SWISSTD_S3_BUCKET not set")
	}

	client, err = discordgo.New("Bot " + os.Getenv("DISCORD_BOT_TOKEN"))
	if err != nil {
		log.Fatalf("discordbot.init: failed to initialize discord client: %v", err)
	}
}

func registerSlashCommands() {
	if os.Getenv("DISCORD_REGISTER_CMDS") == "" {
		return
	}

	tabCmd := &discordgo.ApplicationCommand{
		Name:        string(TabCmd),
		Description: "Tournament tab commands; try /tab help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TabHelpCmd),
				Description: "Show usage for tab",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TabAboutCmd),
				Description: "Show information about swisstab",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TabPairingsCmd),
				Description: "Get the pairings of a round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "round",
						Description: "Round number (default is the round in progress)",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "broadcast",
						Description: "Share with the rest of the channel instead of only to you (default is false)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TabStandingsCmd),
				Description: "Get current team standings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "broadcast",
						Description: "Share with the rest of the channel instead of only to you (default is false)",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TabSpeakersCmd),
				Description: "Get individual speaker standings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "method",
						Description: "Aggregation: total, drop-1, or drop-2 (default total)",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "broadcast",
						Description: "Share with the rest of the channel instead of only to you (default is false)",
						Required:    false,
					},
				},
			},
		},
	}

	cmd, err := client.ApplicationCommandCreate(botAppId, "", tabCmd)
	if err != nil {
		log.Printf("discordbot.reg: failed to register %v: %v", tabCmd.Name, err)
		return
	}

	log.Printf("discordbot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
}

func main() {
	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
