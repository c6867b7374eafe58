/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/policydebate/swisstab/internal"
	"github.com/policydebate/swisstab/s3store"
	"github.com/policydebate/swisstab/tab"
)

type TabSubCommand string

const (
	TabAboutCmd     TabSubCommand = "about"
	TabHelpCmd      TabSubCommand = "help"
	TabPairingsCmd  TabSubCommand = "pairings"
	TabStandingsCmd TabSubCommand = "standings"
	TabSpeakersCmd  TabSubCommand = "speakers"
)

var tabSubCmdHdlrs = map[TabSubCommand]CmdHandler{
	TabAboutCmd:     tabAboutCmdHandler,
	TabHelpCmd:      tabHelpCmdHandler,
	TabPairingsCmd:  tabPairingsCmdHandler,
	TabStandingsCmd: tabStandingsCmdHandler,
	TabSpeakersCmd:  tabSpeakersCmdHandler,
}

func tabCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := tabHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := tabSubCmdHdlrs[TabSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

//go:embed about.txt
var aboutText string

func tabAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func tabHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(helpText)
	return resp
}

// loadSnapshot pulls the current tournament state from the snapshot bucket.
func loadSnapshot(ctx context.Context) (*tab.Tournament, error) {
	store := s3store.New(ctx, snapBucket, false, true)
	if err := store.Init(); err != nil {
		return nil, err
	}
	data, err := store.LoadSnapshot(internal.SnapshotKey)
	if err != nil {
		return nil, err
	}
	return tab.Import(data)
}

// tabPairingsCmdHandler handles the /tab pairings command to display the
// pairings of a round
func tabPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	data := inter.ApplicationCommandData()
	broadcast := false // default
	var round int64
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "round" {
				round = opt.IntValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}

	tourney, err := loadSnapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching tournament: %v", err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}
	if round == 0 {
		// default to the round being played
		round = int64(tourney.CurrentRound) + 1
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(tab.BuildPairingsOutput(tourney, int(round))))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tabStandingsCmdHandler handles the /tab standings command to display
// current team standings
func tabStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	data := inter.ApplicationCommandData()
	broadcast := false // default
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}

	tourney, err := loadSnapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching tournament: %v", err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(tab.BuildStandingsOutput(tourney)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tabSpeakersCmdHandler handles the /tab speakers command to display the
// individual speaker standings
func tabSpeakersCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
	data := inter.ApplicationCommandData()
	broadcast := false // default
	methodName := ""
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "method" {
				methodName = opt.StringValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}

	method, err := tab.ParseParticipantMethod(methodName)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Unknown method %q; use total, drop-1, or drop-2",
			methodName)
		log.Printf("discordbot.speakers: %v", resp.Data.Content)
		return resp
	}

	tourney, err := loadSnapshot(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching tournament: %v", err)
		log.Printf("discordbot.speakers: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(tab.BuildParticipantsOutput(tourney, method)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
