package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gmsf-mobile-api/internal/application/auth"
	"github.com/jhoicas/gmsf-mobile-api/internal/application/dto"
	"github.com/jhoicas/gmsf-mobile-api/internal/application/usecase"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/keystore"
	"github.com/jhoicas/gmsf-mobile-api/internal/infrastructure/transport"
	"github.com/jhoicas/gmsf-mobile-api/pkg/config"
	"github.com/jhoicas/gmsf-mobile-api/pkg/logger"
)

// app agrupa las dependencias ya cableadas para los subcomandos.
type app struct {
	session   *auth.SessionManager
	trainers  *usecase.TrainerUseCase
	clients   *usecase.ClientUseCase
	dashboard *usecase.DashboardUseCase
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	store, err := keystore.New(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("abrir keystore: %w", err)
	}

	api := transport.New(transport.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
	}, store, log)

	return &app{
		session:   auth.NewSessionManager(store, api, log),
		trainers:  usecase.NewTrainerUseCase(api, log),
		clients:   usecase.NewClientUseCase(api, log),
		dashboard: usecase.NewDashboardUseCase(api, log),
	}, nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}
	fmt.Println(string(b))
}

// requireSession restaura la sesión guardada antes de un comando
// administrativo. Sin sesión válida el comando no tiene sentido.
func requireSession(ctx context.Context, a *app) error {
	if !a.session.RestoreSession(ctx) {
		return fmt.Errorf("no hay sesión activa: ejecute primero `gmsf login`")
	}
	return nil
}

func main() {
	var a *app

	root := &cobra.Command{
		Use:           "gmsf",
		Short:         "CLI de administración del gimnasio GMSF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = buildApp()
			return err
		},
	}

	// ── sesión ──────────────────────────────────────────────────────────────

	var loginCorreo, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión como administrador",
		RunE: func(cmd *cobra.Command, args []string) error {
			correo, password := loginCorreo, loginPassword
			reader := bufio.NewReader(os.Stdin)
			if correo == "" {
				fmt.Print("Correo: ")
				line, _ := reader.ReadString('\n')
				correo = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Contraseña: ")
				line, _ := reader.ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}

			res := a.session.Login(cmd.Context(), correo, password)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			fmt.Printf("Sesión iniciada: %s %s <%s>\n", res.User.Nombre, res.User.Apellido, res.User.Correo)
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginCorreo, "correo", "", "Correo del administrador (se pregunta si falta)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Contraseña (se pregunta si falta)")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión y borrar las credenciales locales",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout(cmd.Context())
			fmt.Println("Sesión cerrada.")
			return nil
		},
	}

	perfilCmd := &cobra.Command{
		Use:   "perfil",
		Short: "Mostrar el perfil del administrador autenticado",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			u, err := a.session.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(u)
			return nil
		},
	}

	// ── entrenadores ────────────────────────────────────────────────────────

	entrenadoresCmd := &cobra.Command{Use: "entrenadores", Short: "Gestión de entrenadores"}

	var trPage dto.PageRequest
	trListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar entrenadores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			res, err := a.trainers.List(cmd.Context(), trPage)
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
	trListCmd.Flags().IntVar(&trPage.Page, "pagina", 1, "Página")
	trListCmd.Flags().IntVar(&trPage.Limit, "limite", 10, "Tamaño de página")
	trListCmd.Flags().StringVar(&trPage.Search, "buscar", "", "Texto de búsqueda")

	trGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Consultar un entrenador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			tr, err := a.trainers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJSON(tr)
			return nil
		},
	}

	trActivateCmd := &cobra.Command{
		Use:   "activate <id>",
		Short: "Activar un entrenador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			if err := a.trainers.SetActive(cmd.Context(), args[0], true); err != nil {
				return err
			}
			fmt.Println("Entrenador activado.")
			return nil
		},
	}

	trDeactivateCmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Desactivar un entrenador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			if err := a.trainers.SetActive(cmd.Context(), args[0], false); err != nil {
				return err
			}
			fmt.Println("Entrenador desactivado.")
			return nil
		},
	}

	entrenadoresCmd.AddCommand(trListCmd, trGetCmd, trActivateCmd, trDeactivateCmd)

	// ── clientes ────────────────────────────────────────────────────────────

	clientesCmd := &cobra.Command{Use: "clientes", Short: "Gestión de clientes"}

	var clPage dto.PageRequest
	clListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar clientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			res, err := a.clients.List(cmd.Context(), clPage)
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
	clListCmd.Flags().IntVar(&clPage.Page, "pagina", 1, "Página")
	clListCmd.Flags().IntVar(&clPage.Limit, "limite", 10, "Tamaño de página")
	clListCmd.Flags().StringVar(&clPage.Search, "buscar", "", "Texto de búsqueda")

	clGetCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Consultar un cliente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			c, err := a.clients.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJSON(c)
			return nil
		},
	}

	clCheckCmd := &cobra.Command{
		Use:   "check <tipo-documento> <numero>",
		Short: "Verificar si existe un usuario por documento",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			res, err := a.clients.CheckUser(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}

	clientesCmd.AddCommand(clListCmd, clGetCmd, clCheckCmd)

	// ── dashboard ───────────────────────────────────────────────────────────

	dashboardCmd := &cobra.Command{Use: "dashboard", Short: "Indicadores del gimnasio"}

	var dashPeriod string
	dashResumenCmd := &cobra.Command{
		Use:   "resumen",
		Short: "Resumen rápido del período",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			raw, err := a.dashboard.QuickSummary(cmd.Context(), dashPeriod)
			if err != nil {
				return err
			}
			var v any
			if json.Unmarshal(raw, &v) == nil {
				printJSON(v)
			} else {
				fmt.Println(string(raw))
			}
			return nil
		},
	}
	dashResumenCmd.Flags().StringVar(&dashPeriod, "periodo", dto.PeriodToday, "today|week|month")

	dashStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Estadísticas generales",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			stats, err := a.dashboard.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(stats)
			return nil
		},
	}

	var metricsPeriod string
	dashMetricasCmd := &cobra.Command{
		Use:   "metricas",
		Short: "Métricas principales del período",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			raw, err := a.dashboard.MainMetrics(cmd.Context(), metricsPeriod)
			if err != nil {
				return err
			}
			var v any
			if json.Unmarshal(raw, &v) == nil {
				printJSON(v)
			} else {
				fmt.Println(string(raw))
			}
			return nil
		},
	}
	dashMetricasCmd.Flags().StringVar(&metricsPeriod, "periodo", dto.PeriodToday, "today|week|month")

	dashWidgetCmd := &cobra.Command{
		Use:   "widget",
		Short: "Datos compactos para el widget móvil",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			raw, err := a.dashboard.Widget(cmd.Context())
			if err != nil {
				return err
			}
			var v any
			if json.Unmarshal(raw, &v) == nil {
				printJSON(v)
			} else {
				fmt.Println(string(raw))
			}
			return nil
		},
	}

	dashboardCmd.AddCommand(dashResumenCmd, dashStatsCmd, dashMetricasCmd, dashWidgetCmd)

	root.AddCommand(loginCmd, logoutCmd, perfilCmd, entrenadoresCmd, clientesCmd, dashboardCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
