// Package elevenlabs implements the voiceover synthesis provider client.
package elevenlabs
