package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vera-byte/vgo-diet/internal/app"
	"github.com/vera-byte/vgo-diet/internal/router"
	"github.com/vera-byte/vgo-diet/pkg/model"

	"github.com/spf13/cobra"
)

var (
	pageQuery     model.PageQuery
	foodKeyword   string
	dietUserID    int64
	adminUsername string
	analysisQuery model.AnalysisQuery
	recordFields  map[string]string
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Browse and manage the food catalogue",
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Food.ListFoods(cmd.Context(), model.FoodQuery{PageQuery: pageQuery, Keyword: foodKeyword})
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), env, "id", "name", "calories", "protein", "fat", "carbohydrate")
		})
	},
}

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Food.AddFood(cmd.Context(), parseFields(recordFields))
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Food.DeleteFood(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var dietCmd = &cobra.Command{
	Use:   "diet",
	Short: "Record and review meals",
}

var dietAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a diet record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Diet.AddDietRecord(cmd.Context(), parseFields(recordFields))
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var dietListCmd = &cobra.Command{
	Use:   "list",
	Short: "List diet records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Diet.ListDietRecords(cmd.Context(), model.DietQuery{PageQuery: pageQuery, UserID: dietUserID})
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), env, "id", "foodName", "mealType", "weight", "calories", "recordDate")
		})
	},
}

var dietDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a diet record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, router.DietPath, func(a *app.App) error {
			env, err := a.API.Diet.DeleteDietRecord(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration",
}

var adminUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var adminUserListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.AdminUserPath, func(a *app.App) error {
			env, err := a.API.Admin.ListUsers(cmd.Context(), model.UserQuery{PageQuery: pageQuery, Username: adminUsername})
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), env, "id", "username", "nickname", "role", "status")
		})
	},
}

var adminUserAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.AdminUserPath, func(a *app.App) error {
			env, err := a.API.Admin.AddUser(cmd.Context(), parseFields(recordFields))
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var adminUserUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := recordFields["id"]; !ok {
			return fmt.Errorf("update requires --set id=<id>")
		}
		return withApp(cmd, router.AdminUserPath, func(a *app.App) error {
			env, err := a.API.Admin.UpdateUser(cmd.Context(), parseFields(recordFields))
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var adminUserDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, router.AdminUserPath, func(a *app.App) error {
			env, err := a.API.Admin.DeleteUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Nutrition analysis",
}

var analysisReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the nutrition report for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.DashboardPath, func(a *app.App) error {
			env, err := a.API.Analysis.GetAnalysisReport(cmd.Context(), analysisQuery)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file such as an avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return withApp(cmd, router.UserPath, func(a *app.App) error {
			env, err := a.API.File.UploadFile(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func addPageFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().IntVar(&pageQuery.PageNum, "page", 1, "page number")
		c.Flags().IntVar(&pageQuery.PageSize, "size", 10, "page size")
	}
}

func addFieldFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringToStringVar(&recordFields, "set", nil, "record field, key=value")
	}
}

func init() {
	addPageFlags(foodListCmd, dietListCmd, adminUserListCmd)
	addFieldFlags(foodAddCmd, dietAddCmd, adminUserAddCmd, adminUserUpdateCmd)

	foodListCmd.Flags().StringVarP(&foodKeyword, "keyword", "k", "", "search keyword")
	dietListCmd.Flags().Int64Var(&dietUserID, "user-id", 0, "list another user's records (admin only)")
	adminUserListCmd.Flags().StringVar(&adminUsername, "username", "", "filter by username")
	analysisReportCmd.Flags().Int64Var(&analysisQuery.UserID, "user-id", 0, "report for another user (admin only)")
	analysisReportCmd.Flags().StringVar(&analysisQuery.Date, "date", "", "report date, YYYY-MM-DD")

	foodCmd.AddCommand(foodListCmd, foodAddCmd, foodDeleteCmd)
	dietCmd.AddCommand(dietAddCmd, dietListCmd, dietDeleteCmd)
	adminUserCmd.AddCommand(adminUserListCmd, adminUserAddCmd, adminUserUpdateCmd, adminUserDeleteCmd)
	adminCmd.AddCommand(adminUserCmd)
	analysisCmd.AddCommand(analysisReportCmd)

	RootCmd.AddCommand(foodCmd, dietCmd, adminCmd, analysisCmd, uploadCmd)
}
