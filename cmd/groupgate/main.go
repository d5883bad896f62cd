package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) post(path string, body any, bearer string) (int, []byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("GROUPGATE_URL", "http://localhost:8080")
		out     = envOr("GROUPGATE_OUT", "text")
		bearer  string
		tokens  []string
	)

	c := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}

	root := &cobra.Command{
		Use:   "groupgate",
		Short: "CLI para consultar la fachada de groupgate",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.BaseURL = baseURL
			c.OutFormat = out
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env GROUPGATE_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "formato de salida: text | json")
	root.PersistentFlags().StringVar(&bearer, "bearer", "", "token para el path ambiente (header Authorization)")
	root.PersistentFlags().StringSliceVar(&tokens, "token", nil, "token explícito (repetible; tiene precedencia sobre --bearer)")

	scopeBody := func() map[string]any {
		if len(tokens) > 0 {
			return map[string]any{"tokens": tokens}
		}
		return map[string]any{}
	}

	readCmd := &cobra.Command{
		Use:   "scope-read",
		Short: "Resuelve el scope de lectura (grupos permitidos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := c.post("/v1/scope/read", scopeBody(), bearer)
			if err != nil {
				return err
			}
			c.print(status, body)
			return nil
		},
	}

	writeCmd := &cobra.Command{
		Use:   "scope-write",
		Short: "Resuelve la identidad de escritura (un grupo o null)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := c.post("/v1/scope/write", scopeBody(), bearer)
			if err != nil {
				return err
			}
			c.print(status, body)
			return nil
		},
	}

	var (
		checkToken string
		groupID    string
		level      string
		permission string
	)
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Chequea pertenencia/permiso/nivel contra un grupo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkToken == "" || groupID == "" {
				return fmt.Errorf("faltan --check-token y/o --group-id")
			}
			body := map[string]any{"token": checkToken, "group_id": groupID}
			if level != "" {
				body["level"] = level
			}
			if permission != "" {
				body["permission"] = permission
			}
			status, out, err := c.post("/v1/access/check", body, "")
			if err != nil {
				return err
			}
			c.print(status, out)
			return nil
		},
	}
	checkCmd.Flags().StringVar(&checkToken, "check-token", "", "token a chequear")
	checkCmd.Flags().StringVar(&groupID, "group-id", "", "identificador del grupo objetivo")
	checkCmd.Flags().StringVar(&level, "level", "", "nivel requerido: read | write | admin")
	checkCmd.Flags().StringVar(&permission, "permission", "", "permiso elemental requerido")

	resolveCmd := &cobra.Command{
		Use:   "resolve [name...]",
		Short: "Mapea nombres de grupo a identificadores estables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := c.post("/v1/groups/resolve", map[string]any{"names": args}, "")
			if err != nil {
				return err
			}
			c.print(status, body)
			return nil
		},
	}

	root.AddCommand(readCmd, writeCmd, checkCmd, resolveCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
