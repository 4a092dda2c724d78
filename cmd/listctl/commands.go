package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pest-erp/internal/dto"
	"pest-erp/pkg/listing"
	"pest-erp/pkg/service"
)

func newListsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Все зарегистрированные списки",
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := []listing.Column{
				{Field: "name", Header: "Name"},
				{Field: "title", Header: "Title"},
				{Field: "mode", Header: "Mode"},
				{Field: "table", Header: "Table"},
				{Field: "permission", Header: "Permission"},
			}
			rows := make([]listing.Row, 0)
			for _, def := range a.registry.All() {
				rows = append(rows, listing.Row{
					"name": def.Name, "title": def.Title, "mode": string(def.Mode),
					"table": def.Table, "permission": def.Permission,
				})
			}
			renderTable(cmd.OutOrStdout(), cols, rows)
			return nil
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	q := &queryFlags{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Показать страницу списка",
		Example: "  listctl page -l backlog --filter technician=\"Ravi Kumar\" --sort -service_date\n" +
			"  listctl page -l pests --fixture ./pests.yaml --search termite --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ctrl, filter, err := a.load(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			page := ctrl.Page()
			if !filter.WithPagination {
				rows := ctrl.Matching()
				page = listing.DerivedPage{Rows: rows, TotalCount: len(rows), PageCount: 1, PageSize: len(rows)}
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}
			fmt.Fprintln(out, headerStyle.Render(def.Title))
			renderTable(out, def.Columns, page.Rows)
			renderFooter(out, page)
			return nil
		},
	}
	q.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "вывести страницу в JSON")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	q := &queryFlags{}
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить видимую страницу (или все строки с --all) в csv, html, xlsx или pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if _, ok := exportWriters[format]; !ok {
				return fmt.Errorf("неподдерживаемый формат %q", format)
			}
			def, ctrl, filter, err := a.load(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows := visibleRows(ctrl, filter)

			var buf bytes.Buffer
			now := time.Now().In(location(a.cfg))
			if err := exportWriters[format](&buf, def.Title, def.Columns, rows, now); err != nil {
				return err
			}

			if outPath == "" {
				outPath = fmt.Sprintf("%s.%s", def.Name, format)
			}
			if outPath == "-" {
				if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			a.logger.Info("Выгрузка готова", zap.String("list", def.Name), zap.String("out", outPath), zap.Int("rows", len(rows)))
			return nil
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", dto.FormatCSV, "csv, html, xlsx или pdf")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "файл выгрузки, - для stdout (по умолчанию <list>.<format>)")
	return cmd
}

type exportWriter func(w io.Writer, title string, cols []listing.Column, rows []listing.Row, now time.Time) error

// exportWriters - форматы выгрузки. Файл пишется только после успешной отрисовки.
var exportWriters = map[string]exportWriter{
	dto.FormatCSV: func(w io.Writer, _ string, cols []listing.Column, rows []listing.Row, _ time.Time) error {
		return listing.WriteCSV(w, cols, rows)
	},
	dto.FormatHTML: listing.WritePrintHTML,
	dto.FormatXLSX: func(w io.Writer, title string, cols []listing.Column, rows []listing.Row, _ time.Time) error {
		return listing.WriteXLSX(w, title, cols, rows)
	},
	dto.FormatPDF: listing.WritePDF,
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		userID uint64
		perms  []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить access-токен для локальной проверки API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl := a.cfg.GetDuration(cfgKeyJWTTTL)
			jwtSvc := service.NewJWTService(a.cfg.GetString(cfgKeyJWTSecret), ttl, ttl, a.logger)
			access, _, err := jwtSvc.GenerateTokens(userID, perms)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), access)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user", 1, "ID пользователя")
	cmd.Flags().StringSliceVar(&perms, "perm", []string{"superuser"}, "права (можно несколько)")
	return cmd
}
