package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"catalogadmin/internal/model"
	"catalogadmin/internal/service"
	"catalogadmin/internal/validator"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  "Create, list, and manage API users.",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE:  runUserCreate,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [email]",
	Short: "Delete a user and revoke their tokens",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role [email] [role]",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserSetRole,
}

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
	userSearch   string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd, userCreateCmd, userDeleteCmd, userSetRoleCmd)

	userCreateCmd.Flags().StringVarP(&userName, "name", "n", "", "User name (required)")
	userCreateCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email (required)")
	userCreateCmd.Flags().StringVarP(&userPassword, "password", "p", "", "User password (required)")
	userCreateCmd.Flags().StringVarP(&userRole, "role", "r", string(model.RoleUser), "User role (admin/user)")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userListCmd.Flags().StringVarP(&userSearch, "search", "s", "", "Filter by name or email")
}

func runUserList(cmd *cobra.Command, args []string) error {
	a, cleanup, err := openApp()
	if err != nil {
		return err
	}
	defer cleanup()

	users, _, err := a.Users.List(cmd.Context(), model.ListQuery{Search: userSearch})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Email, u.Role, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	in := service.CreateUserInput{Name: userName, Email: userEmail, Password: userPassword, Role: userRole}
	if err := validator.New().Validate(&in); err != nil {
		return err
	}

	a, cleanup, err := openApp()
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.Users.Create(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Printf("User %s created successfully (ID: %d, role: %s)\n", user.Email, user.ID, user.Role)
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	a, cleanup, err := openApp()
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.Users.GetByEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := a.Users.Delete(cmd.Context(), nil, user.ID); err != nil {
		return err
	}
	fmt.Printf("User %s deleted successfully\n", user.Email)
	return nil
}

func runUserSetRole(cmd *cobra.Command, args []string) error {
	role, err := model.ParseRole(args[1])
	if err != nil {
		return err
	}

	a, cleanup, err := openApp()
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := a.Users.GetByEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	r := role.String()
	if _, err := a.Users.Update(cmd.Context(), user.ID, service.UpdateUserInput{Role: &r}); err != nil {
		return err
	}
	fmt.Printf("User %s is now %s\n", user.Email, role)
	return nil
}
