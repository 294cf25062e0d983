package roster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Override flags recognized by the rule engine.
const (
	// FlagAllowWithoutSignatureKeyword exempts a channel from the
	// signature-keyword title rule.
	FlagAllowWithoutSignatureKeyword = "allow_without_signature_keyword"
)

// ChannelOverrides maps channel IDs to accumulated rule-override flags.
type ChannelOverrides struct {
	flags map[string]map[string]struct{}
}

// LoadChannelOverrides parses a `channel_id|flag` override file. A missing
// file yields an empty table.
func LoadChannelOverrides(path string) (*ChannelOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ParseChannelOverrides("")
		}
		return nil, fmt.Errorf("read channel overrides file: %w", err)
	}
	return ParseChannelOverrides(string(data))
}

// ParseChannelOverrides parses override content from memory. Multiple lines
// for one channel accumulate into a flag set.
func ParseChannelOverrides(content string) (*ChannelOverrides, error) {
	o := &ChannelOverrides{flags: make(map[string]map[string]struct{})}
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		channelID, flag, found := strings.Cut(line, "|")
		if !found {
			return nil, fmt.Errorf("channel overrides line %d: expected channel_id|flag, got %q", i+1, line)
		}
		channelID = strings.TrimSpace(channelID)
		flag = strings.TrimSpace(flag)
		if channelID == "" || flag == "" {
			return nil, fmt.Errorf("channel overrides line %d: empty channel or flag", i+1)
		}
		set, ok := o.flags[channelID]
		if !ok {
			set = make(map[string]struct{})
			o.flags[channelID] = set
		}
		set[flag] = struct{}{}
	}
	return o, nil
}

// HasFlag reports whether the channel carries the given override flag.
func (o *ChannelOverrides) HasFlag(channelID, flag string) bool {
	if o == nil {
		return false
	}
	set, ok := o.flags[channelID]
	if !ok {
		return false
	}
	_, ok = set[flag]
	return ok
}
