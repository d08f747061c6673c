package main

import (
	"flag"
	"fmt"
	"os"

	"gatepass-nexus/backend/config"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/pkg/jwt"
)

// tokengen 为本地联调签发访问令牌，生产环境令牌由外部身份服务签发
func main() {
	configPath := flag.String("config", "", "配置文件路径")
	userID := flag.String("user", "", "用户 ID（必填）")
	name := flag.String("name", "", "显示名称")
	department := flag.String("department", "", "所属部门")
	role := flag.String("role", model.RoleStaff, "角色：admin | security_officer | staff")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "缺少 -user 参数")
		flag.Usage()
		os.Exit(2)
	}
	switch *role {
	case model.RoleAdmin, model.RoleSecurityOfficer, model.RoleStaff:
	default:
		fmt.Fprintf(os.Stderr, "无效的角色: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	token, err := jwt.NewManager(&cfg.Auth).GenerateToken(jwt.Identity{
		UserID:     *userID,
		Name:       *name,
		Department: *department,
		Role:       *role,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "签发令牌失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
