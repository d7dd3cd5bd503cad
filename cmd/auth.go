package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/vera-byte/vgo-diet/internal/app"
	"github.com/vera-byte/vgo-diet/internal/router"
	"github.com/vera-byte/vgo-diet/pkg/model"

	"github.com/spf13/cobra"
)

var (
	loginReq    model.LoginRequest
	registerReq model.RegisterRequest
	captchaOut  string
	refreshInfo bool
	profileSet  map[string]string
	passwordReq model.PasswordChange
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.LoginPath, func(a *app.App) error {
			result, err := a.API.User.LoginAndStore(cmd.Context(), loginReq, a.Session)
			if err != nil {
				return err
			}
			loc, err := a.Guard(router.RootPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in, landing on %s\n", loc.Path)
			return printJSON(cmd.OutOrStdout(), result.User)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "", func(a *app.App) error {
			if err := a.Session.Logout(); err != nil {
				return err
			}
			if _, err := a.Guard(router.LoginPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.LoginPath, func(a *app.App) error {
			env, err := a.API.User.Register(cmd.Context(), registerReq)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var captchaCmd = &cobra.Command{
	Use:   "captcha",
	Short: "Fetch a login captcha",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.LoginPath, func(a *app.App) error {
			env, err := a.API.User.GetCaptcha(cmd.Context())
			if err != nil {
				return err
			}
			var captcha model.Captcha
			if err := env.Decode(&captcha); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "captcha key: %s\n", captcha.Key)
			if captchaOut == "" {
				return nil
			}
			if err := saveImage(captchaOut, captcha.Image); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "captcha image written to %s\n", captchaOut)
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.UserPath, func(a *app.App) error {
			if !refreshInfo {
				return printJSON(cmd.OutOrStdout(), a.Session.UserInfo())
			}
			env, err := a.API.User.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update the current user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(profileSet) == 0 {
			return fmt.Errorf("nothing to update, use --set key=value")
		}
		return withApp(cmd, router.UserPath, func(a *app.App) error {
			env, err := a.API.User.UpdateUserInfo(cmd.Context(), parseFields(profileSet))
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the current user's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, router.UserPath, func(a *app.App) error {
			env, err := a.API.User.UpdatePassword(cmd.Context(), passwordReq)
			if err != nil {
				return err
			}
			return printData(cmd.OutOrStdout(), env)
		})
	},
}

// saveImage 保存 data URI 或纯 base64 编码的图片
func saveImage(path, image string) error {
	if i := strings.Index(image, ","); strings.HasPrefix(image, "data:") && i >= 0 {
		image = image[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return fmt.Errorf("failed to decode captcha image: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	loginCmd.Flags().StringVarP(&loginReq.Username, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginReq.Password, "password", "p", "", "password")
	loginCmd.Flags().StringVar(&loginReq.CaptchaKey, "captcha-key", "", "captcha key from the captcha command")
	loginCmd.Flags().StringVar(&loginReq.CaptchaCode, "captcha-code", "", "captcha answer")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&registerReq.Username, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registerReq.Password, "password", "p", "", "password")
	registerCmd.Flags().StringVar(&registerReq.Nickname, "nickname", "", "display name")
	registerCmd.Flags().StringVar(&registerReq.CaptchaKey, "captcha-key", "", "captcha key from the captcha command")
	registerCmd.Flags().StringVar(&registerReq.CaptchaCode, "captcha-code", "", "captcha answer")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")

	captchaCmd.Flags().StringVarP(&captchaOut, "out", "o", "", "write the captcha image to this file")

	whoamiCmd.Flags().BoolVar(&refreshInfo, "refresh", false, "fetch the profile from the server instead of the local session")

	profileCmd.Flags().StringToStringVar(&profileSet, "set", nil, "profile field to update, key=value")

	passwordCmd.Flags().StringVar(&passwordReq.OldPassword, "old", "", "current password")
	passwordCmd.Flags().StringVar(&passwordReq.NewPassword, "new", "", "new password")
	_ = passwordCmd.MarkFlagRequired("old")
	_ = passwordCmd.MarkFlagRequired("new")

	RootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, captchaCmd, whoamiCmd, profileCmd, passwordCmd)
}
