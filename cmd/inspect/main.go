// Command inspect dumps the stored chat records for debugging. It scans one
// key prefix and renders the decoded records as a table.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

type messageRow struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	Text        string `json:"text,omitempty"`
	At          int64  `json:"at"`
}

type userRow struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type groupRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, user: or group:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headersFor(*prefix))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				row, err := rowFor(*prefix, key, v)
				if err != nil {
					// Log and keep scanning instead of aborting the dump
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
}

func headersFor(prefix string) []string {
	switch {
	case strings.HasPrefix(prefix, "user:"):
		return []string{"Key", "ID", "Email", "Roles"}
	case strings.HasPrefix(prefix, "group:"):
		return []string{"Key", "Name", "Creator", "Members", "Created"}
	default:
		return []string{"Key", "Sender", "Target", "Created", "Text"}
	}
}

func rowFor(prefix, key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(prefix, "user:"):
		var u userRow
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, err
		}
		return []string{key, shorten(u.ID), u.Email, strings.Join(u.Roles, ",")}, nil

	case strings.HasPrefix(prefix, "group:"):
		var g groupRow
		if err := json.Unmarshal(value, &g); err != nil {
			return nil, err
		}
		return []string{key, g.Name, g.CreatorID,
			strings.Join(g.Members, ","), g.CreatedAt.Format("2006-01-02 15:04:05")}, nil

	default:
		var m messageRow
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, err
		}
		target := m.RecipientID
		if m.GroupID != "" {
			target = "group " + m.GroupID
		}
		return []string{shorten(key), m.SenderID, target,
			time.Unix(0, m.At).UTC().Format("15:04:05"), shorten(m.Text)}, nil
	}
}

// shorten keeps dump lines readable
func shorten(s string) string {
	if len(s) > 48 {
		return s[:48] + "…"
	}
	return s
}
